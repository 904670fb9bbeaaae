package models

import "time"

// Calendar providers the platform can hold credentials for.
const (
	CalendarGoogle  = "google"
	CalendarOutlook = "outlook"
	CalendarApple   = "apple"
)

// CalendarCredentials are OAuth credentials obtained from a calendar provider.
// They live only in the session store (Redis), keyed by user and provider,
// and are treated as absent once ExpiresAt has passed.
type CalendarCredentials struct {
	Provider     string     `json:"provider"`
	AccessToken  string     `json:"access_token"`
	RefreshToken *string    `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the credentials are past their expiry. Credentials
// without an expiry never expire locally.
func (c *CalendarCredentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// ValidCalendarProvider reports whether provider names a supported calendar.
func ValidCalendarProvider(provider string) bool {
	switch provider {
	case CalendarGoogle, CalendarOutlook, CalendarApple:
		return true
	}
	return false
}
