package jobs

import (
	"context"
	"fmt"
	"time"

	"mentorhub/internal/caching"
	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/roles"
	"mentorhub/internal/services"

	"go.uber.org/zap"
)

const (
	// Swept window overlaps the previous run so a missed tick cannot skip an
	// organization; the Redis marker keeps the overlap from double-mailing.
	trialSweepWindow    = 25 * time.Hour
	trialNoticeMarkerNS = "mentorhub:trialnotice:"
	trialNoticeTTL      = 72 * time.Hour
)

// TrialSweeper notifies org admins when their organization's trial lapses.
type TrialSweeper struct {
	orgRepo  repositories.OrganizationRepository
	userRepo repositories.UserRepository
	emailSvc services.EmailService
	cacheSvc caching.CacheService
	logger   *zap.Logger
}

func NewTrialSweeper(orgRepo repositories.OrganizationRepository, userRepo repositories.UserRepository,
	emailSvc services.EmailService, cacheSvc caching.CacheService, logger *zap.Logger) *TrialSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrialSweeper{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		cacheSvc: cacheSvc,
		logger:   logger,
	}
}

// Run sweeps organizations whose trial ended inside the window and mails their
// admins once. A notice failure for one organization never blocks the rest.
func (s *TrialSweeper) Run(ctx context.Context) error {
	now := time.Now()
	lapsed, err := s.orgRepo.ListTrialLapsed(ctx, now.Add(-trialSweepWindow), now)
	if err != nil {
		return fmt.Errorf("failed to list lapsed trials: %w", err)
	}

	notified := 0
	for _, org := range lapsed {
		// Skip organizations that converted to a paid tier.
		if org.SubscriptionTier != "" && org.SubscriptionTier != models.TierFree {
			continue
		}

		marker := trialNoticeMarkerNS + org.ID.String()
		fresh, err := s.cacheSvc.SetNX(ctx, marker, now.Format(time.RFC3339), trialNoticeTTL)
		if err != nil {
			s.logger.Warn("trial notice marker check failed",
				zap.String("org_id", org.ID.String()), zap.Error(err))
			continue
		}
		if !fresh {
			continue // already notified this lapse
		}

		recipients, err := s.adminEmails(ctx, org)
		if err != nil {
			s.logger.Warn("failed to resolve org admins",
				zap.String("org_id", org.ID.String()), zap.Error(err))
			continue
		}
		if err := s.emailSvc.SendTrialEndingNotice(ctx, org, recipients); err != nil {
			s.logger.Warn("trial notice send failed",
				zap.String("org_id", org.ID.String()), zap.Error(err))
			// Drop the marker so the next sweep retries this organization.
			_ = s.cacheSvc.Delete(ctx, marker)
			continue
		}
		notified++
	}

	s.logger.Info("trial sweep completed",
		zap.Int("lapsed", len(lapsed)), zap.Int("notified", notified))
	return nil
}

func (s *TrialSweeper) adminEmails(ctx context.Context, org *models.Organization) ([]string, error) {
	members, err := s.userRepo.List(ctx, org.ID.String(), 500, 0)
	if err != nil {
		return nil, err
	}
	var recipients []string
	for _, member := range members {
		if roles.Resolve(member.Role) == roles.OrgAdmin {
			recipients = append(recipients, member.Email)
		}
	}
	return recipients, nil
}
