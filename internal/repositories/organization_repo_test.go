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

type OrganizationRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrganizationRepository
	orgID   uuid.UUID
	context context.Context
}

func (suite *OrganizationRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrganizationRepo(mock)
	suite.orgID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrganizationRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestOrganizationRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationRepoTestSuite))
}

func orgRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "organization_code", "domain", "subscription_tier", "trial_end",
		"program_name", "program_logo_url", "program_accent_color", "flowglad_customer_id",
		"status", "created_at", "updated_at",
	})
}

func (suite *OrganizationRepoTestSuite) TestCreate() {
	org := &models.Organization{
		ID:               suite.orgID,
		Name:             "Acme Mentoring",
		OrganizationCode: "ACME",
		SubscriptionTier: "",
		ProgramName:      "Acme Mentors",
		Status:           "active",
	}

	suite.mock.ExpectExec(`INSERT INTO organizations`).
		WithArgs(org.ID, org.Name, org.OrganizationCode, org.Domain, org.SubscriptionTier, org.TrialEnd,
			org.ProgramName, org.ProgramLogoURL, org.ProgramAccentColor, org.FlowgladCustomerID, org.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, org)
	assert.NoError(suite.T(), err)
}

func (suite *OrganizationRepoTestSuite) TestGetByCode() {
	now := time.Now()
	trialEnd := now.Add(10 * 24 * time.Hour)
	rows := orgRows().AddRow(
		suite.orgID, "Acme Mentoring", "ACME", nil, "", &trialEnd,
		"Acme Mentors", nil, nil, nil, "active", now, now,
	)

	suite.mock.ExpectQuery(`SELECT (.+) FROM organizations WHERE organization_code = \$1`).
		WithArgs("ACME").
		WillReturnRows(rows)

	org, err := suite.repo.GetByCode(suite.context, "ACME")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.orgID, org.ID)
	assert.NotNil(suite.T(), org.TrialEnd)
}

func (suite *OrganizationRepoTestSuite) TestListTrialLapsed_WindowArgs() {
	since := time.Now().Add(-1 * time.Hour)
	until := time.Now()

	suite.mock.ExpectQuery(`SELECT (.+) FROM organizations\s+WHERE trial_end > \$1 AND trial_end <= \$2`).
		WithArgs(since, until).
		WillReturnRows(orgRows())

	orgs, err := suite.repo.ListTrialLapsed(suite.context, since, until)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), orgs)
}

func (suite *OrganizationRepoTestSuite) TestSetFlowgladCustomerID() {
	suite.mock.ExpectExec(`UPDATE organizations SET flowglad_customer_id = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("cus_123", suite.orgID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SetFlowgladCustomerID(suite.context, suite.orgID, "cus_123")
	assert.NoError(suite.T(), err)
}
