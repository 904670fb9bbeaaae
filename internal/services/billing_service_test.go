package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrganizationRepository) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListAll(ctx context.Context) ([]*models.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListTrialLapsed(ctx context.Context, since, until time.Time) ([]*models.Organization, error) {
	args := m.Called(ctx, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SetFlowgladCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

type MockFlowgladService struct {
	mock.Mock
}

func (m *MockFlowgladService) EnsureCustomer(ctx context.Context, orgID uuid.UUID, orgName, email string) (string, error) {
	args := m.Called(ctx, orgID, orgName, email)
	return args.String(0), args.Error(1)
}

func (m *MockFlowgladService) CreateCheckoutSession(ctx context.Context, customerID, priceRef, successURL, cancelURL string) (string, error) {
	args := m.Called(ctx, customerID, priceRef, successURL, cancelURL)
	return args.String(0), args.Error(1)
}

func (m *MockFlowgladService) BillingPortalURL(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

func (m *MockFlowgladService) GetBillingData(ctx context.Context, customerID string) (*BillingData, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BillingData), args.Error(1)
}

type BillingServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockOrganizationRepository
	mockFlowglad *MockFlowgladService
	service      BillingService
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockOrganizationRepository)
	suite.mockFlowglad = new(MockFlowgladService)
	suite.service = NewBillingService(suite.mockRepo, suite.mockFlowglad)
}

func (suite *BillingServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockFlowglad.AssertExpectations(suite.T())
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}

func strPtrBilling(s string) *string { return &s }

func (suite *BillingServiceTestSuite) TestGetBillingView_NoProviderCustomer() {
	ctx := context.Background()
	orgID := uuid.New()
	trialEnd := time.Now().Add(72 * time.Hour)
	org := &models.Organization{
		ID:               orgID,
		Name:             "Acme Mentoring",
		SubscriptionTier: "",
		TrialEnd:         &trialEnd,
	}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)

	view, err := suite.service.GetBillingView(ctx, orgID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), view.PlanState.OnTrial)
	assert.Equal(suite.T(), PlanEffectiveTrial, view.PlanState.EffectivePlan)
	assert.Nil(suite.T(), view.Provider, "no provider data before first checkout")
	assert.Contains(suite.T(), view.Plans, models.TierStarter)
}

func (suite *BillingServiceTestSuite) TestGetBillingView_WithProviderData() {
	ctx := context.Background()
	orgID := uuid.New()
	org := &models.Organization{
		ID:                 orgID,
		Name:               "Acme Mentoring",
		SubscriptionTier:   models.TierProfessional,
		FlowgladCustomerID: strPtrBilling("cus_123"),
	}
	data := &BillingData{
		PaymentMethods: []PaymentMethod{{ID: "pm_1", Brand: "visa", LastFour: "4242"}},
		Invoices:       []Invoice{},
		PortalURL:      "https://billing.example.com/portal",
	}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)
	suite.mockFlowglad.On("GetBillingData", ctx, "cus_123").Return(data, nil)

	view, err := suite.service.GetBillingView(ctx, orgID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TierProfessional, view.PlanState.EffectivePlan)
	assert.Equal(suite.T(), data, view.Provider)
}

func (suite *BillingServiceTestSuite) TestStartCheckout_CreatesCustomerOnFirstUse() {
	ctx := context.Background()
	orgID := uuid.New()
	org := &models.Organization{
		ID:     orgID,
		Name:   "Acme Mentoring",
		Domain: strPtrBilling("acme.com"),
	}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)
	suite.mockFlowglad.On("EnsureCustomer", ctx, orgID, "Acme Mentoring", "billing@acme.com").
		Return("cus_new", nil)
	suite.mockRepo.On("SetFlowgladCustomerID", ctx, orgID, "cus_new").Return(nil)
	suite.mockFlowglad.On("CreateCheckoutSession", ctx, "cus_new", "price_starter_monthly",
		"https://app/success", "https://app/cancel").
		Return("https://checkout.example.com/s/abc", nil)

	url, err := suite.service.StartCheckout(ctx, orgID, models.TierStarter, "https://app/success", "https://app/cancel")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://checkout.example.com/s/abc", url)
}

func (suite *BillingServiceTestSuite) TestStartCheckout_ReusesExistingCustomer() {
	ctx := context.Background()
	orgID := uuid.New()
	org := &models.Organization{
		ID:                 orgID,
		Name:               "Acme Mentoring",
		FlowgladCustomerID: strPtrBilling("cus_123"),
	}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)
	suite.mockFlowglad.On("CreateCheckoutSession", ctx, "cus_123", "price_business_monthly",
		"https://app/success", "https://app/cancel").
		Return("https://checkout.example.com/s/def", nil)

	url, err := suite.service.StartCheckout(ctx, orgID, models.TierBusiness, "https://app/success", "https://app/cancel")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://checkout.example.com/s/def", url)
	suite.mockFlowglad.AssertNotCalled(suite.T(), "EnsureCustomer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestStartCheckout_InvalidTier() {
	ctx := context.Background()

	_, err := suite.service.StartCheckout(ctx, uuid.New(), "platinum", "https://app/success", "https://app/cancel")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid plan tier")
}

func (suite *BillingServiceTestSuite) TestStartCheckout_FreeTierNotPurchasable() {
	ctx := context.Background()

	_, err := suite.service.StartCheckout(ctx, uuid.New(), models.TierFree, "https://app/success", "https://app/cancel")
	assert.Error(suite.T(), err)
}

func (suite *BillingServiceTestSuite) TestPortalURL_NoCustomer() {
	ctx := context.Background()
	orgID := uuid.New()
	org := &models.Organization{ID: orgID, Name: "Acme Mentoring"}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)

	_, err := suite.service.PortalURL(ctx, orgID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "no billing account")
}

func (suite *BillingServiceTestSuite) TestGetBillingView_ProviderFailureSurfaces() {
	ctx := context.Background()
	orgID := uuid.New()
	org := &models.Organization{
		ID:                 orgID,
		Name:               "Acme Mentoring",
		FlowgladCustomerID: strPtrBilling("cus_123"),
	}

	suite.mockRepo.On("GetByID", ctx, orgID).Return(org, nil)
	suite.mockFlowglad.On("GetBillingData", ctx, "cus_123").
		Return(nil, errors.New("flowglad: customer not found"))

	_, err := suite.service.GetBillingView(ctx, orgID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "customer not found")
}
