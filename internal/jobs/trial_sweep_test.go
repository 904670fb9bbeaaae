package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentorhub/internal/models"
	"mentorhub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrgRepo struct {
	mock.Mock
}

func (m *MockOrgRepo) Create(ctx context.Context, org *models.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrgRepo) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrgRepo) Update(ctx context.Context, org *models.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *MockOrgRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrgRepo) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrgRepo) ListAll(ctx context.Context) ([]*models.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrgRepo) ListTrialLapsed(ctx context.Context, since, until time.Time) ([]*models.Organization, error) {
	args := m.Called(ctx, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrgRepo) SetFlowgladCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	return m.Called(ctx, id, customerID).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCustomEmail(ctx context.Context, req *services.CustomEmailRequest) (*services.EmailResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EmailResult), args.Error(1)
}

func (m *MockEmailService) SendTrialEndingNotice(ctx context.Context, org *models.Organization, recipients []string) error {
	return m.Called(ctx, org, recipients).Error(0)
}

// fakeCache implements the marker operations over a map; the rest of the
// cache interface is unused by the sweep.
type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]string{}} }

func (f *fakeCache) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return nil, nil
}
func (f *fakeCache) SetUser(ctx context.Context, user *models.User, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) DeleteUser(ctx context.Context, userID uuid.UUID) error { return nil }
func (f *fakeCache) GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	return nil, nil
}
func (f *fakeCache) SetOrganization(ctx context.Context, org *models.Organization, ttl time.Duration) error {
	return nil
}
func (f *fakeCache) DeleteOrganization(ctx context.Context, orgID uuid.UUID) error { return nil }
func (f *fakeCache) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}
func (f *fakeCache) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	return nil
}
func (f *fakeCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	f.entries[key] = value
	return nil
}
func (f *fakeCache) GetString(ctx context.Context, key string) (string, error) {
	return f.entries[key], nil
}
func (f *fakeCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if _, exists := f.entries[key]; exists {
		return false, nil
	}
	f.entries[key] = value
	return true, nil
}
func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func lapsedOrg(name string) *models.Organization {
	end := time.Now().Add(-2 * time.Hour)
	return &models.Organization{
		ID:       uuid.New(),
		Name:     name,
		TrialEnd: &end,
	}
}

func orgAdmin(orgID, email string) *models.User {
	return &models.User{ID: uuid.New(), OrganizationID: orgID, Email: email, Role: "ORG_ADMIN"}
}

func TestTrialSweep_NotifiesAdminsOnce(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	cache := newFakeCache()

	org := lapsedOrg("Acme")
	admin := orgAdmin(org.ID.String(), "admin@acme.com")
	mentee := &models.User{ID: uuid.New(), OrganizationID: org.ID.String(), Email: "m@acme.com", Role: "MENTEE"}

	orgRepo.On("ListTrialLapsed", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Organization{org}, nil)
	userRepo.On("List", mock.Anything, org.ID.String(), 500, 0).
		Return([]*models.User{admin, mentee}, nil)
	emailSvc.On("SendTrialEndingNotice", mock.Anything, org, []string{"admin@acme.com"}).
		Return(nil).Once()

	sweeper := NewTrialSweeper(orgRepo, userRepo, emailSvc, cache, nil)
	require.NoError(t, sweeper.Run(context.Background()))

	// Second run inside the window: marker suppresses a duplicate notice.
	require.NoError(t, sweeper.Run(context.Background()))
	emailSvc.AssertNumberOfCalls(t, "SendTrialEndingNotice", 1)
}

func TestTrialSweep_SkipsPaidOrganizations(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)

	paid := lapsedOrg("Paid Co")
	paid.SubscriptionTier = models.TierProfessional

	orgRepo.On("ListTrialLapsed", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Organization{paid}, nil)

	sweeper := NewTrialSweeper(orgRepo, userRepo, emailSvc, newFakeCache(), nil)
	require.NoError(t, sweeper.Run(context.Background()))
	emailSvc.AssertNotCalled(t, "SendTrialEndingNotice", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrialSweep_SendFailureRetriesNextRun(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	cache := newFakeCache()

	org := lapsedOrg("Flaky")
	admin := orgAdmin(org.ID.String(), "admin@flaky.io")

	orgRepo.On("ListTrialLapsed", mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Organization{org}, nil)
	userRepo.On("List", mock.Anything, org.ID.String(), 500, 0).
		Return([]*models.User{admin}, nil)
	emailSvc.On("SendTrialEndingNotice", mock.Anything, org, []string{"admin@flaky.io"}).
		Return(errors.New("smtp down")).Once()
	emailSvc.On("SendTrialEndingNotice", mock.Anything, org, []string{"admin@flaky.io"}).
		Return(nil).Once()

	sweeper := NewTrialSweeper(orgRepo, userRepo, emailSvc, cache, nil)
	require.NoError(t, sweeper.Run(context.Background()), "send failures are contained")

	// Marker was dropped, so the next run retries and succeeds.
	require.NoError(t, sweeper.Run(context.Background()))
	emailSvc.AssertNumberOfCalls(t, "SendTrialEndingNotice", 2)
}

func TestTrialSweep_ListFailurePropagates(t *testing.T) {
	orgRepo := new(MockOrgRepo)
	orgRepo.On("ListTrialLapsed", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	sweeper := NewTrialSweeper(orgRepo, new(MockUserRepo), new(MockEmailService), newFakeCache(), nil)
	err := sweeper.Run(context.Background())
	assert.Error(t, err)
}
