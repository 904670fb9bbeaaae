package services

import (
	"context"
	"fmt"

	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/roles"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchService pairs mentors with mentees inside one organization. Capacity
// is advisory: an over-capacity mentor can still be matched, the caller just
// gets told.
type MatchService interface {
	Create(ctx context.Context, orgID string, mentorID, menteeID uuid.UUID) (*models.Match, *models.MentorCapacity, error)
	GetByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Match, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status string) error
	Capacity(ctx context.Context, mentorID uuid.UUID) (*models.MentorCapacity, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	userRepo  repositories.UserRepository
	logger    *zap.Logger
}

func NewMatchService(matchRepo repositories.MatchRepository, userRepo repositories.UserRepository, logger *zap.Logger) MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &matchService{matchRepo: matchRepo, userRepo: userRepo, logger: logger}
}

// Create validates both sides of the pairing and records the match as pending.
// The returned capacity reflects the mentor's load before this match went in.
func (s *matchService) Create(ctx context.Context, orgID string, mentorID, menteeID uuid.UUID) (*models.Match, *models.MentorCapacity, error) {
	if mentorID == menteeID {
		return nil, nil, fmt.Errorf("mentor and mentee must be different users")
	}

	mentor, err := s.userRepo.GetByID(ctx, mentorID)
	if err != nil {
		return nil, nil, fmt.Errorf("mentor not found: %w", err)
	}
	mentee, err := s.userRepo.GetByID(ctx, menteeID)
	if err != nil {
		return nil, nil, fmt.Errorf("mentee not found: %w", err)
	}

	if roles.Resolve(mentor.Role) != roles.Mentor {
		return nil, nil, fmt.Errorf("user %s is not a mentor", mentorID)
	}
	if roles.Resolve(mentee.Role) != roles.Mentee {
		return nil, nil, fmt.Errorf("user %s is not a mentee", menteeID)
	}
	if mentor.OrganizationID != orgID || mentee.OrganizationID != orgID {
		return nil, nil, fmt.Errorf("mentor and mentee must belong to the organization")
	}

	capacity, err := s.capacityFor(ctx, mentor)
	if err != nil {
		return nil, nil, err
	}
	if capacity.AtCapacity {
		s.logger.Info("matching over-capacity mentor",
			zap.String("mentor_id", mentorID.String()),
			zap.Int("active_mentees", capacity.ActiveMentees),
			zap.Int("max_mentees", capacity.MaxMentees))
	}

	match := &models.Match{
		ID:             uuid.New(),
		OrganizationID: orgID,
		MentorID:       mentorID,
		MenteeID:       menteeID,
		Status:         models.MatchPending,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, nil, err
	}
	return match, capacity, nil
}

func (s *matchService) GetByID(ctx context.Context, orgID string, id uuid.UUID) (*models.Match, error) {
	return s.matchRepo.GetByID(ctx, orgID, id)
}

func (s *matchService) List(ctx context.Context, orgID string, limit, offset int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.matchRepo.List(ctx, orgID, limit, offset)
}

func (s *matchService) UpdateStatus(ctx context.Context, orgID string, id uuid.UUID, status string) error {
	switch status {
	case models.MatchPending, models.MatchActive, models.MatchPaused, models.MatchEnded:
	default:
		return fmt.Errorf("invalid match status: %s", status)
	}
	return s.matchRepo.UpdateStatus(ctx, orgID, id, status)
}

// Capacity reports the advisory capacity view for a mentor.
func (s *matchService) Capacity(ctx context.Context, mentorID uuid.UUID) (*models.MentorCapacity, error) {
	mentor, err := s.userRepo.GetByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if roles.Resolve(mentor.Role) != roles.Mentor {
		return nil, fmt.Errorf("user %s is not a mentor", mentorID)
	}
	return s.capacityFor(ctx, mentor)
}

func (s *matchService) capacityFor(ctx context.Context, mentor *models.User) (*models.MentorCapacity, error) {
	active, err := s.matchRepo.CountActiveByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active matches: %w", err)
	}
	max := mentor.MaxMentees
	if max <= 0 {
		max = models.DefaultMaxMentees
	}
	return &models.MentorCapacity{
		MentorID:      mentor.ID,
		ActiveMentees: active,
		MaxMentees:    max,
		AtCapacity:    active >= max,
	}, nil
}
