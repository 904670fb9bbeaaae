package services

import (
	"context"
	"fmt"
	"time"

	"mentorhub/internal/config"
	"mentorhub/internal/models"
	"mentorhub/internal/session"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarService manages per-user calendar connections. Credentials live in
// the session store only; Postgres never sees a provider token.
type CalendarService interface {
	Connect(ctx context.Context, userID uuid.UUID, req *ConnectCalendarRequest) error
	Status(ctx context.Context, userID uuid.UUID) (*CalendarStatus, error)
	Disconnect(ctx context.Context, userID uuid.UUID, provider string) error
}

// ConnectCalendarRequest carries the OAuth result from the client.
type ConnectCalendarRequest struct {
	Provider     string  `json:"provider"`
	IDToken      string  `json:"id_token"`
	AccessToken  string  `json:"access_token"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	ExpiresIn    int     `json:"expires_in,omitempty"`
}

// ProviderStatus is the connection state for one provider.
type ProviderStatus struct {
	Provider  string     `json:"provider"`
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CalendarStatus lists every supported provider with its connection state.
type CalendarStatus struct {
	Providers []ProviderStatus `json:"providers"`
}

type calendarService struct {
	store  session.Store
	logger *zap.Logger
	// jwks holds one keyset per provider that issues verifiable ID tokens.
	jwks map[string]*keyfunc.JWKS
}

// NewCalendarService builds the service and starts JWKS refresh for providers
// that publish a keyset. A provider whose JWKS cannot be fetched at startup is
// left unverifiable and Connect for it will fail until restart.
func NewCalendarService(store session.Store, cfg config.CalendarConfig, logger *zap.Logger) CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &calendarService{
		store:  store,
		logger: logger,
		jwks:   make(map[string]*keyfunc.JWKS),
	}

	endpoints := map[string]string{
		models.CalendarGoogle:  cfg.GoogleJWKSURL,
		models.CalendarOutlook: cfg.MicrosoftJWKSURL,
	}
	for provider, url := range endpoints {
		if url == "" {
			continue
		}
		jwks, err := keyfunc.Get(url, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("JWKS refresh failed", zap.String("provider", provider), zap.Error(err))
			},
		})
		if err != nil {
			logger.Warn("JWKS fetch failed, provider connect disabled",
				zap.String("provider", provider), zap.Error(err))
			continue
		}
		s.jwks[provider] = jwks
	}

	return s
}

// Connect verifies the provider ID token where the provider publishes a JWKS,
// then stores the credentials for the user. Apple calendars use app-specific
// passwords rather than OAuth ID tokens, so they skip token verification.
func (s *calendarService) Connect(ctx context.Context, userID uuid.UUID, req *ConnectCalendarRequest) error {
	if !models.ValidCalendarProvider(req.Provider) {
		return fmt.Errorf("unknown calendar provider: %s", req.Provider)
	}
	if req.AccessToken == "" {
		return fmt.Errorf("access token is required")
	}

	if jwks, ok := s.jwks[req.Provider]; ok {
		if req.IDToken == "" {
			return fmt.Errorf("id token is required for %s", req.Provider)
		}
		token, err := jwt.Parse(req.IDToken, jwks.Keyfunc)
		if err != nil {
			return fmt.Errorf("id token verification failed: %w", err)
		}
		if !token.Valid {
			return fmt.Errorf("id token is not valid")
		}
	}

	creds := &models.CalendarCredentials{
		Provider:     req.Provider,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if req.ExpiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
		creds.ExpiresAt = &expiresAt
	}

	if err := s.store.SetCalendarCredentials(ctx, userID, creds); err != nil {
		return fmt.Errorf("failed to store calendar credentials: %w", err)
	}
	s.logger.Info("calendar connected",
		zap.String("user_id", userID.String()), zap.String("provider", req.Provider))
	return nil
}

// Status reports each provider's connection state. Expired credentials read
// back as disconnected because the store treats them as absent.
func (s *calendarService) Status(ctx context.Context, userID uuid.UUID) (*CalendarStatus, error) {
	status := &CalendarStatus{}
	for _, provider := range []string{models.CalendarGoogle, models.CalendarOutlook, models.CalendarApple} {
		creds, err := s.store.GetCalendarCredentials(ctx, userID, provider)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s credentials: %w", provider, err)
		}
		entry := ProviderStatus{Provider: provider, Connected: creds != nil}
		if creds != nil {
			entry.ExpiresAt = creds.ExpiresAt
		}
		status.Providers = append(status.Providers, entry)
	}
	return status, nil
}

// Disconnect removes one provider's credentials for one user.
func (s *calendarService) Disconnect(ctx context.Context, userID uuid.UUID, provider string) error {
	if !models.ValidCalendarProvider(provider) {
		return fmt.Errorf("unknown calendar provider: %s", provider)
	}
	return s.store.ClearCalendarCredentials(ctx, userID, provider)
}
