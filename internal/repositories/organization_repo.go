package repositories

import (
	"context"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetByCode(ctx context.Context, code string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
	ListAll(ctx context.Context) ([]*models.Organization, error)
	ListTrialLapsed(ctx context.Context, since, until time.Time) ([]*models.Organization, error)
	SetFlowgladCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}

type organizationRepo struct {
	db DB
}

func NewOrganizationRepo(db DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

const orgColumns = `id, name, organization_code, domain, subscription_tier, trial_end,
		program_name, program_logo_url, program_accent_color, flowglad_customer_id, status, created_at, updated_at`

func (r *organizationRepo) scanOrg(row pgx.Row) (*models.Organization, error) {
	org := &models.Organization{}
	err := row.Scan(&org.ID, &org.Name, &org.OrganizationCode, &org.Domain, &org.SubscriptionTier,
		&org.TrialEnd, &org.ProgramName, &org.ProgramLogoURL, &org.ProgramAccentColor,
		&org.FlowgladCustomerID, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, organization_code, domain, subscription_tier, trial_end,
			program_name, program_logo_url, program_accent_color, flowglad_customer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, org.ID, org.Name, org.OrganizationCode, org.Domain, org.SubscriptionTier,
		org.TrialEnd, org.ProgramName, org.ProgramLogoURL, org.ProgramAccentColor, org.FlowgladCustomerID, org.Status)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return r.scanOrg(r.db.QueryRow(ctx, query, id))
}

func (r *organizationRepo) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE organization_code = $1`
	return r.scanOrg(r.db.QueryRow(ctx, query, code))
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, organization_code = $2, domain = $3, subscription_tier = $4, trial_end = $5,
			program_name = $6, program_logo_url = $7, program_accent_color = $8, status = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, org.Name, org.OrganizationCode, org.Domain, org.SubscriptionTier,
		org.TrialEnd, org.ProgramName, org.ProgramLogoURL, org.ProgramAccentColor, org.Status, org.ID)
	return err
}

func (r *organizationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM organizations WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *organizationRepo) list(ctx context.Context, query string, args ...any) ([]*models.Organization, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := r.scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepo) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *organizationRepo) ListAll(ctx context.Context) ([]*models.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ListTrialLapsed returns organizations whose trial ended inside (since, until]
// and that never picked a paid tier. The trial sweep job uses the window to
// stay idempotent across runs.
func (r *organizationRepo) ListTrialLapsed(ctx context.Context, since, until time.Time) ([]*models.Organization, error) {
	query := `
		SELECT ` + orgColumns + `
		FROM organizations
		WHERE trial_end > $1 AND trial_end <= $2
		  AND (subscription_tier = '' OR subscription_tier = 'free')
		ORDER BY trial_end
	`
	return r.list(ctx, query, since, until)
}

func (r *organizationRepo) SetFlowgladCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	query := `UPDATE organizations SET flowglad_customer_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, customerID, id)
	return err
}
