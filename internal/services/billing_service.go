package services

import (
	"context"
	"fmt"
	"time"

	"mentorhub/internal/models"
	"mentorhub/internal/repositories"

	"github.com/google/uuid"
)

// BillingService builds the organization billing view: the derived plan state
// plus live provider data.
type BillingService interface {
	GetBillingView(ctx context.Context, orgID uuid.UUID) (*BillingView, error)
	StartCheckout(ctx context.Context, orgID uuid.UUID, tier, successURL, cancelURL string) (string, error)
	PortalURL(ctx context.Context, orgID uuid.UUID) (string, error)
	PlanStateFor(org *models.Organization, now time.Time) PlanState
}

// BillingView is everything the org billing screen renders.
type BillingView struct {
	OrganizationID uuid.UUID             `json:"organization_id"`
	PlanState      PlanState             `json:"plan_state"`
	Plans          map[string]PlanConfig `json:"plans"`
	Provider       *BillingData          `json:"provider,omitempty"`
}

type billingService struct {
	orgRepo  repositories.OrganizationRepository
	flowglad FlowgladService
}

func NewBillingService(orgRepo repositories.OrganizationRepository, flowglad FlowgladService) BillingService {
	return &billingService{orgRepo: orgRepo, flowglad: flowglad}
}

// PlanStateFor derives the plan state for an organization at a given instant.
func (s *billingService) PlanStateFor(org *models.Organization, now time.Time) PlanState {
	return ComputePlanState(org.SubscriptionTier, org.TrialEnd, now)
}

// GetBillingView assembles the billing screen. Provider data is only fetched
// once the organization has a provider customer; before first checkout the
// view carries plan state and the catalog alone.
func (s *billingService) GetBillingView(ctx context.Context, orgID uuid.UUID) (*BillingView, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	view := &BillingView{
		OrganizationID: org.ID,
		PlanState:      ComputePlanState(org.SubscriptionTier, org.TrialEnd, time.Now()),
		Plans:          AvailablePlans(),
	}

	if org.FlowgladCustomerID != nil {
		data, err := s.flowglad.GetBillingData(ctx, *org.FlowgladCustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch billing data: %w", err)
		}
		view.Provider = data
	}

	return view, nil
}

// StartCheckout ensures the provider customer exists, records its id, and
// returns the hosted checkout URL for the requested tier.
func (s *billingService) StartCheckout(ctx context.Context, orgID uuid.UUID, tier, successURL, cancelURL string) (string, error) {
	plan, ok := PlanForTier(tier)
	if !ok {
		return "", fmt.Errorf("invalid plan tier: %s", tier)
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return "", err
	}

	customerID, err := s.ensureCustomer(ctx, org)
	if err != nil {
		return "", err
	}

	return s.flowglad.CreateCheckoutSession(ctx, customerID, plan.PriceRef, successURL, cancelURL)
}

// PortalURL returns the self-service billing portal link. Organizations that
// never checked out have nothing to manage.
func (s *billingService) PortalURL(ctx context.Context, orgID uuid.UUID) (string, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	if org.FlowgladCustomerID == nil {
		return "", fmt.Errorf("organization has no billing account yet")
	}
	return s.flowglad.BillingPortalURL(ctx, *org.FlowgladCustomerID)
}

func (s *billingService) ensureCustomer(ctx context.Context, org *models.Organization) (string, error) {
	if org.FlowgladCustomerID != nil {
		return *org.FlowgladCustomerID, nil
	}

	email := ""
	if org.Domain != nil {
		email = "billing@" + *org.Domain
	}
	customerID, err := s.flowglad.EnsureCustomer(ctx, org.ID, org.Name, email)
	if err != nil {
		return "", err
	}
	if err := s.orgRepo.SetFlowgladCustomerID(ctx, org.ID, customerID); err != nil {
		return "", fmt.Errorf("failed to record billing customer id: %w", err)
	}
	return customerID, nil
}
