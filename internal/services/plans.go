package services

import "mentorhub/internal/models"

// PlanConfig describes one purchasable subscription tier and the Flowglad
// price it maps to.
type PlanConfig struct {
	Tier        string   `json:"tier"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceRef    string   `json:"price_ref"`
	AmountCents int64    `json:"amount_cents"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
}

// Purchasable plans keyed by tier. The free tier is the absence of a plan and
// is not listed here.
var availablePlans = map[string]PlanConfig{
	models.TierStarter: {
		Tier:        models.TierStarter,
		Name:        "Starter",
		Description: "Small mentorship programs getting off the ground",
		PriceRef:    "price_starter_monthly",
		AmountCents: 4900,
		Currency:    "USD",
		Interval:    "monthly",
		Features: []string{
			"Up to 50 members",
			"Mentor/mentee matching",
			"Email support",
		},
	},
	models.TierProfessional: {
		Tier:        models.TierProfessional,
		Name:        "Professional",
		Description: "Growing programs with custom branding",
		PriceRef:    "price_professional_monthly",
		AmountCents: 14900,
		Currency:    "USD",
		Interval:    "monthly",
		Features: []string{
			"Up to 250 members",
			"Custom program branding",
			"Calendar integrations",
			"Priority support",
		},
	},
	models.TierBusiness: {
		Tier:        models.TierBusiness,
		Name:        "Business",
		Description: "Multi-program organizations",
		PriceRef:    "price_business_monthly",
		AmountCents: 39900,
		Currency:    "USD",
		Interval:    "monthly",
		Features: []string{
			"Up to 1000 members",
			"Bulk admin email",
			"Audit log exports",
			"Dedicated onboarding",
		},
	},
	models.TierEnterprise: {
		Tier:        models.TierEnterprise,
		Name:        "Enterprise",
		Description: "Large organizations with custom requirements",
		PriceRef:    "price_enterprise_monthly",
		AmountCents: 99900,
		Currency:    "USD",
		Interval:    "monthly",
		Features: []string{
			"Unlimited members",
			"SSO",
			"Custom integrations",
			"Dedicated account manager",
		},
	},
}

// AvailablePlans returns a copy of the plan catalog.
func AvailablePlans() map[string]PlanConfig {
	result := make(map[string]PlanConfig, len(availablePlans))
	for k, v := range availablePlans {
		result[k] = v
	}
	return result
}

// PlanForTier looks up the plan backing a purchasable tier.
func PlanForTier(tier string) (PlanConfig, bool) {
	plan, ok := availablePlans[tier]
	return plan, ok
}
