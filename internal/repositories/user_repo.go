package repositories

import (
	"context"
	"fmt"

	"mentorhub/internal/models"
	"mentorhub/internal/roles"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the repositories need. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, organization_id, email, password_hash, name, role, avatar_url, title, company, bio,
		skills, goals, mood, accepting_new_mentees, max_mentees, goals_public, status, created_at, updated_at`

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.AvatarURL, &user.Title, &user.Company, &user.Bio, &user.Skills, &user.Goals, &user.Mood,
		&user.AcceptingNewMentees, &user.MaxMentees, &user.GoalsPublic, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// Normalize at the read edge; stored rows may carry legacy spellings.
	user.Role = string(roles.Resolve(user.Role))
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	var count int
	emailCheckQuery := `SELECT COUNT(*) FROM users WHERE email = $1`
	if err := r.db.QueryRow(ctx, emailCheckQuery, user.Email).Scan(&count); err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("user with email '%s' already exists", user.Email)
	}

	query := `
		INSERT INTO users (id, organization_id, email, password_hash, name, role, avatar_url, title, company, bio,
			skills, goals, mood, accepting_new_mentees, max_mentees, goals_public, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.Name,
		user.Role, user.AvatarURL, user.Title, user.Company, user.Bio, user.Skills, user.Goals, user.Mood,
		user.AcceptingNewMentees, user.MaxMentees, user.GoalsPublic, user.Status)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET organization_id = $1, name = $2, role = $3, avatar_url = $4, title = $5, company = $6, bio = $7,
			skills = $8, goals = $9, mood = $10, accepting_new_mentees = $11, max_mentees = $12,
			goals_public = $13, status = $14, updated_at = NOW()
		WHERE id = $15
	`
	_, err := r.db.Exec(ctx, query, user.OrganizationID, user.Name, user.Role, user.AvatarURL, user.Title,
		user.Company, user.Bio, user.Skills, user.Goals, user.Mood, user.AcceptingNewMentees, user.MaxMentees,
		user.GoalsPublic, user.Status, user.ID)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) list(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, orgID, limit, offset)
}

func (r *userRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.list(ctx, query)
}
