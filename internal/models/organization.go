package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers. An empty tier means the organization has never picked a
// plan and is treated as trialing.
const (
	TierFree         = "free"
	TierStarter      = "starter"
	TierProfessional = "professional"
	TierBusiness     = "business"
	TierEnterprise   = "enterprise"
)

type Organization struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	OrganizationCode   string     `json:"organization_code" db:"organization_code"`
	Domain             *string    `json:"domain" db:"domain"`
	SubscriptionTier   string     `json:"subscription_tier" db:"subscription_tier"`
	TrialEnd           *time.Time `json:"trial_end" db:"trial_end"`
	ProgramName        string     `json:"program_name" db:"program_name"`
	ProgramLogoURL     *string    `json:"program_logo_url" db:"program_logo_url"`
	ProgramAccentColor *string    `json:"program_accent_color" db:"program_accent_color"`
	FlowgladCustomerID *string    `json:"flowglad_customer_id" db:"flowglad_customer_id"`
	Status             string     `json:"status" db:"status"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidTier reports whether tier is one of the known subscription tiers.
func ValidTier(tier string) bool {
	switch tier {
	case TierFree, TierStarter, TierProfessional, TierBusiness, TierEnterprise:
		return true
	}
	return false
}
