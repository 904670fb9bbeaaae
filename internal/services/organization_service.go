package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"mentorhub/internal/caching"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"

	"github.com/google/uuid"
)

const (
	orgCacheTTL      = 5 * time.Minute
	defaultTrialDays = 14
)

// OrganizationService handles tenant organization business logic.
type OrganizationService interface {
	Create(ctx context.Context, req *CreateOrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetByCode(ctx context.Context, code string) (*models.Organization, error)
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
}

// CreateOrganizationRequest provisions a new tenant.
type CreateOrganizationRequest struct {
	Name        string  `json:"name"`
	Domain      *string `json:"domain,omitempty"`
	ProgramName string  `json:"program_name,omitempty"`
}

type organizationService struct {
	orgRepo repositories.OrganizationRepository
	cache   caching.CacheService
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, cache caching.CacheService) OrganizationService {
	return &organizationService{orgRepo: orgRepo, cache: cache}
}

// Create provisions an organization with a join code and a running trial. The
// tier stays unset until first checkout, so the derived plan state reports
// trial.
func (s *organizationService) Create(ctx context.Context, req *CreateOrganizationRequest) (*models.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}

	code, err := generateOrgCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization code: %w", err)
	}

	trialEnd := time.Now().Add(defaultTrialDays * 24 * time.Hour)
	programName := strings.TrimSpace(req.ProgramName)
	if programName == "" {
		programName = name + " Mentorship"
	}

	org := &models.Organization{
		ID:               uuid.New(),
		Name:             name,
		OrganizationCode: code,
		Domain:           req.Domain,
		SubscriptionTier: "",
		TrialEnd:         &trialEnd,
		ProgramName:      programName,
		Status:           "active",
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// GetByID reads through the cache.
func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetOrganization(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetOrganization(ctx, org, orgCacheTTL)
	}
	return org, nil
}

func (s *organizationService) GetByCode(ctx context.Context, code string) (*models.Organization, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("organization code is required")
	}
	return s.orgRepo.GetByCode(ctx, code)
}

// Update persists organization changes and invalidates the cache entry.
func (s *organizationService) Update(ctx context.Context, org *models.Organization) error {
	if strings.TrimSpace(org.Name) == "" {
		return fmt.Errorf("organization name is required")
	}
	if org.SubscriptionTier != "" && !models.ValidTier(org.SubscriptionTier) {
		return fmt.Errorf("invalid subscription tier: %s", org.SubscriptionTier)
	}

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteOrganization(ctx, org.ID)
	}
	return nil
}

func (s *organizationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orgRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteOrganization(ctx, id)
	}
	return nil
}

func (s *organizationService) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.orgRepo.List(ctx, limit, offset)
}

// generateOrgCode returns an 8-hex-char uppercase join code.
func generateOrgCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
