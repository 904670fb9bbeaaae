package services

import (
	"context"
	"errors"
	"testing"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Match, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*models.Match, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status string) error {
	args := m.Called(ctx, orgID, id, status)
	return args.Error(0)
}

func (m *MockMatchRepository) CountActiveByMentor(ctx context.Context, mentorID uuid.UUID) (int, error) {
	args := m.Called(ctx, mentorID)
	return args.Int(0), args.Error(1)
}

type MatchServiceTestSuite struct {
	suite.Suite
	mockMatches *MockMatchRepository
	mockUsers   *MockUserRepository
	service     MatchService
	orgID       string
}

func (suite *MatchServiceTestSuite) SetupTest() {
	suite.mockMatches = new(MockMatchRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.service = NewMatchService(suite.mockMatches, suite.mockUsers, nil)
	suite.orgID = uuid.New().String()
}

func (suite *MatchServiceTestSuite) TearDownTest() {
	suite.mockMatches.AssertExpectations(suite.T())
	suite.mockUsers.AssertExpectations(suite.T())
}

func TestMatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MatchServiceTestSuite))
}

func (suite *MatchServiceTestSuite) mentor(maxMentees int) *models.User {
	return &models.User{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Role:           "MENTOR",
		MaxMentees:     maxMentees,
	}
}

func (suite *MatchServiceTestSuite) mentee() *models.User {
	return &models.User{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Role:           "MENTEE",
	}
}

func (suite *MatchServiceTestSuite) TestCreate_Success() {
	ctx := context.Background()
	mentor := suite.mentor(3)
	mentee := suite.mentee()

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockUsers.On("GetByID", ctx, mentee.ID).Return(mentee, nil)
	suite.mockMatches.On("CountActiveByMentor", ctx, mentor.ID).Return(1, nil)
	suite.mockMatches.On("Create", ctx, mock.AnythingOfType("*models.Match")).Return(nil)

	match, capacity, err := suite.service.Create(ctx, suite.orgID, mentor.ID, mentee.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MatchPending, match.Status)
	assert.Equal(suite.T(), suite.orgID, match.OrganizationID)
	assert.False(suite.T(), capacity.AtCapacity)
	assert.Equal(suite.T(), 1, capacity.ActiveMentees)
}

func (suite *MatchServiceTestSuite) TestCreate_OverCapacityIsAdvisoryOnly() {
	ctx := context.Background()
	mentor := suite.mentor(2)
	mentee := suite.mentee()

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockUsers.On("GetByID", ctx, mentee.ID).Return(mentee, nil)
	suite.mockMatches.On("CountActiveByMentor", ctx, mentor.ID).Return(2, nil)
	suite.mockMatches.On("Create", ctx, mock.AnythingOfType("*models.Match")).Return(nil)

	match, capacity, err := suite.service.Create(ctx, suite.orgID, mentor.ID, mentee.ID)
	assert.NoError(suite.T(), err, "capacity must not block creation")
	assert.NotNil(suite.T(), match)
	assert.True(suite.T(), capacity.AtCapacity)
}

func (suite *MatchServiceTestSuite) TestCreate_LegacyMentorRoleAccepted() {
	ctx := context.Background()
	mentor := suite.mentor(2)
	mentor.Role = "mentor" // normalized at the boundary either way
	mentee := suite.mentee()

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockUsers.On("GetByID", ctx, mentee.ID).Return(mentee, nil)
	suite.mockMatches.On("CountActiveByMentor", ctx, mentor.ID).Return(0, nil)
	suite.mockMatches.On("Create", ctx, mock.AnythingOfType("*models.Match")).Return(nil)

	_, _, err := suite.service.Create(ctx, suite.orgID, mentor.ID, mentee.ID)
	assert.NoError(suite.T(), err)
}

func (suite *MatchServiceTestSuite) TestCreate_RoleMismatch() {
	ctx := context.Background()
	notAMentor := suite.mentee()
	mentee := suite.mentee()

	suite.mockUsers.On("GetByID", ctx, notAMentor.ID).Return(notAMentor, nil)
	suite.mockUsers.On("GetByID", ctx, mentee.ID).Return(mentee, nil)

	_, _, err := suite.service.Create(ctx, suite.orgID, notAMentor.ID, mentee.ID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "not a mentor")
}

func (suite *MatchServiceTestSuite) TestCreate_CrossOrgRejected() {
	ctx := context.Background()
	mentor := suite.mentor(2)
	mentee := suite.mentee()
	mentee.OrganizationID = uuid.New().String()

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockUsers.On("GetByID", ctx, mentee.ID).Return(mentee, nil)

	_, _, err := suite.service.Create(ctx, suite.orgID, mentor.ID, mentee.ID)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "belong to the organization")
}

func (suite *MatchServiceTestSuite) TestCreate_SelfMatchRejected() {
	id := uuid.New()
	_, _, err := suite.service.Create(context.Background(), suite.orgID, id, id)
	assert.Error(suite.T(), err)
}

func (suite *MatchServiceTestSuite) TestCapacity_DefaultsWhenUnset() {
	ctx := context.Background()
	mentor := suite.mentor(0) // unset capacity

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockMatches.On("CountActiveByMentor", ctx, mentor.ID).Return(2, nil)

	capacity, err := suite.service.Capacity(ctx, mentor.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DefaultMaxMentees, capacity.MaxMentees)
	assert.True(suite.T(), capacity.AtCapacity)
}

func (suite *MatchServiceTestSuite) TestUpdateStatus_InvalidStatus() {
	err := suite.service.UpdateStatus(context.Background(), suite.orgID, uuid.New(), "ARCHIVED")
	assert.Error(suite.T(), err)
}

func (suite *MatchServiceTestSuite) TestUpdateStatus_Success() {
	ctx := context.Background()
	id := uuid.New()
	suite.mockMatches.On("UpdateStatus", ctx, suite.orgID, id, models.MatchActive).Return(nil)

	err := suite.service.UpdateStatus(ctx, suite.orgID, id, models.MatchActive)
	assert.NoError(suite.T(), err)
}

func (suite *MatchServiceTestSuite) TestCapacity_CountError() {
	ctx := context.Background()
	mentor := suite.mentor(2)

	suite.mockUsers.On("GetByID", ctx, mentor.ID).Return(mentor, nil)
	suite.mockMatches.On("CountActiveByMentor", ctx, mentor.ID).Return(0, errors.New("db down"))

	_, err := suite.service.Capacity(ctx, mentor.ID)
	assert.Error(suite.T(), err)
}
