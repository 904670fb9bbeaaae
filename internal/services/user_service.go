package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mentorhub/internal/caching"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/roles"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const userCacheTTL = 5 * time.Minute

// UserService handles member profile business logic.
type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error)
}

// CreateUserRequest carries everything needed to provision a member.
type CreateUserRequest struct {
	OrganizationID string   `json:"organization_id"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Title          *string  `json:"title,omitempty"`
	Company        *string  `json:"company,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Goals          []string `json:"goals,omitempty"`
}

type userService struct {
	userRepo repositories.UserRepository
	cache    caching.CacheService
}

func NewUserService(userRepo repositories.UserRepository, cache caching.CacheService) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

// Create validates, hashes the password, and stores the member with a
// canonical role. Mentors start with the default capacity; goal visibility
// starts private.
func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.OrganizationID) == "" {
		return nil, fmt.Errorf("organization id is required")
	}

	role := roles.Resolve(req.Role)
	if role == roles.Unknown {
		return nil, fmt.Errorf("unrecognized role: %s", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   string(hash),
		Name:           strings.TrimSpace(req.Name),
		Role:           string(role),
		Title:          req.Title,
		Company:        req.Company,
		Skills:         req.Skills,
		Goals:          req.Goals,
		GoalsPublic:    false,
		Status:         "active",
	}
	if role == roles.Mentor {
		user.MaxMentees = models.DefaultMaxMentees
		user.AcceptingNewMentees = true
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID reads through the cache.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUser(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetUser(ctx, user, userCacheTTL)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Update persists profile changes and invalidates the cache entry. Roles are
// normalized so a legacy alias can never round-trip back into storage.
func (s *userService) Update(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("name is required")
	}
	role := roles.Resolve(user.Role)
	if role == roles.Unknown {
		return fmt.Errorf("unrecognized role: %s", user.Role)
	}
	user.Role = string(role)
	if user.MaxMentees < 0 {
		return fmt.Errorf("max mentees cannot be negative")
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, user.ID)
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, id)
	}
	return nil
}

func (s *userService) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, orgID, limit, offset)
}
