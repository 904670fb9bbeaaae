package repositories

import (
	"context"
	"testing"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "organization_id", "email", "password_hash", "name", "role", "avatar_url", "title",
		"company", "bio", "skills", "goals", "mood", "accepting_new_mentees", "max_mentees",
		"goals_public", "status", "created_at", "updated_at",
	})
}

func (suite *UserRepoTestSuite) TestGetByEmail_NormalizesLegacyRole() {
	now := time.Now()
	rows := userRows().AddRow(
		suite.userID, "platform", "ops@mentorhub.io", "hash", "Ops Admin", "PLATFORM_OPERATOR",
		nil, nil, nil, nil, []string{}, []string{}, nil, false, 0, false, "active", now, now,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("ops@mentorhub.io").
		WillReturnRows(rows)

	user, err := suite.repo.GetByEmail(suite.context, "ops@mentorhub.io")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "PLATFORM_ADMIN", user.Role)
	assert.True(suite.T(), user.IsPlatformUser())
}

func (suite *UserRepoTestSuite) TestGetByID_UnknownRoleDegrades() {
	now := time.Now()
	orgID := uuid.New().String()
	rows := userRows().AddRow(
		suite.userID, orgID, "m@example.com", "hash", "Morgan", "SUPERUSER",
		nil, nil, nil, nil, []string{"go"}, []string{}, nil, true, 2, false, "active", now, now,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(rows)

	user, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "UNKNOWN", user.Role)
}

func (suite *UserRepoTestSuite) TestCreate_RejectsDuplicateEmail() {
	user := &models.User{
		ID:             suite.userID,
		OrganizationID: uuid.New().String(),
		Email:          "taken@example.com",
		Role:           "MENTEE",
	}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs(user.Email).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	err := suite.repo.Create(suite.context, user)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already exists")
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := &models.User{
		ID:             suite.userID,
		OrganizationID: uuid.New().String(),
		Email:          "new@example.com",
		PasswordHash:   "hash",
		Name:           "New User",
		Role:           "MENTOR",
		Skills:         []string{"go", "sql"},
		Goals:          []string{},
		MaxMentees:     models.DefaultMaxMentees,
		Status:         "active",
	}

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs(user.Email).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.Name, user.Role,
			user.AvatarURL, user.Title, user.Company, user.Bio, user.Skills, user.Goals, user.Mood,
			user.AcceptingNewMentees, user.MaxMentees, user.GoalsPublic, user.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestListAll() {
	now := time.Now()
	orgID := uuid.New().String()
	rows := userRows().
		AddRow(uuid.New(), orgID, "a@example.com", "h", "A", "MENTOR",
			nil, nil, nil, nil, []string{}, []string{}, nil, true, 2, false, "active", now, now).
		AddRow(uuid.New(), orgID, "b@example.com", "h", "B", "MENTEE",
			nil, nil, nil, nil, []string{}, []string{}, nil, false, 0, false, "active", now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY created_at DESC`).
		WillReturnRows(rows)

	users, err := suite.repo.ListAll(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 2)
}
