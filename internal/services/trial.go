package services

import (
	"time"

	"mentorhub/internal/models"
)

// PlanEffectiveTrial is the effective plan reported while an organization has
// no paid tier or its trial is still running.
const PlanEffectiveTrial = "trial"

// PlanState is the derived billing state for an organization. It is computed
// fresh for every request and never stored.
type PlanState struct {
	OnTrial       bool   `json:"on_trial"`
	DaysRemaining int    `json:"days_remaining"`
	EffectivePlan string `json:"effective_plan"`
}

// ComputePlanState derives the plan state from the stored tier and trial end.
// A trial is on only while trialEnd is set and strictly in the future. Partial
// days round up, so a trial ending later today still counts as one day. An
// expired trial never hides a paid tier.
func ComputePlanState(tier string, trialEnd *time.Time, now time.Time) PlanState {
	state := PlanState{}

	if trialEnd != nil && trialEnd.After(now) {
		state.OnTrial = true
		remaining := trialEnd.Sub(now)
		state.DaysRemaining = int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	}

	switch {
	case state.OnTrial:
		state.EffectivePlan = PlanEffectiveTrial
	case tier == "" || tier == models.TierFree:
		state.EffectivePlan = PlanEffectiveTrial
	default:
		state.EffectivePlan = tier
	}

	return state
}
