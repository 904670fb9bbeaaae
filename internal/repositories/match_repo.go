package repositories

import (
	"context"

	"mentorhub/internal/models"

	"github.com/google/uuid"
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Match, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status string) error
	CountActiveByMentor(ctx context.Context, mentorID uuid.UUID) (int, error)
}

type matchRepo struct {
	db DB
}

func NewMatchRepo(db DB) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, organization_id, mentor_id, mentee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, match.ID, match.OrganizationID, match.MentorID, match.MenteeID, match.Status)
	return err
}

func (r *matchRepo) GetByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Match, error) {
	match := &models.Match{}
	query := `
		SELECT id, organization_id, mentor_id, mentee_id, status, created_at, updated_at
		FROM matches
		WHERE organization_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, orgID, id).Scan(&match.ID, &match.OrganizationID, &match.MentorID,
		&match.MenteeID, &match.Status, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *matchRepo) List(ctx context.Context, orgID string, limit, offset int) ([]*models.Match, error) {
	query := `
		SELECT id, organization_id, mentor_id, mentee_id, status, created_at, updated_at
		FROM matches
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		if err := rows.Scan(&match.ID, &match.OrganizationID, &match.MentorID, &match.MenteeID,
			&match.Status, &match.CreatedAt, &match.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *matchRepo) UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status string) error {
	query := `UPDATE matches SET status = $1, updated_at = NOW() WHERE organization_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, orgID, id)
	return err
}

func (r *matchRepo) CountActiveByMentor(ctx context.Context, mentorID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM matches WHERE mentor_id = $1 AND status = 'ACTIVE'`
	err := r.db.QueryRow(ctx, query, mentorID).Scan(&count)
	return count, err
}
