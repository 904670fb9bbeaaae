// Package session is the server-side replacement for the ad hoc key/value
// storage the legacy clients kept in the browser: calendar OAuth credentials,
// impersonation markers, and known device ids. Every key is scoped to a single
// user identity, and clearing one user never touches another's entries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix             = "mentorhub:session"
	defaultCredentialTTL  = 30 * 24 * time.Hour
	defaultImpersonateTTL = time.Hour
)

// Store holds per-user session context with a defined read/write/clear
// interface per credential kind.
type Store interface {
	SetCalendarCredentials(ctx context.Context, userID uuid.UUID, creds *models.CalendarCredentials) error
	GetCalendarCredentials(ctx context.Context, userID uuid.UUID, provider string) (*models.CalendarCredentials, error)
	ClearCalendarCredentials(ctx context.Context, userID uuid.UUID, provider string) error

	StartImpersonation(ctx context.Context, adminID, targetID uuid.UUID) error
	GetImpersonation(ctx context.Context, adminID uuid.UUID) (uuid.UUID, bool, error)
	ClearImpersonation(ctx context.Context, adminID uuid.UUID) error

	RememberDevice(ctx context.Context, userID uuid.UUID, deviceID string) error
	IsKnownDevice(ctx context.Context, userID uuid.UUID, deviceID string) (bool, error)

	ClearUser(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisStore{client: client}
}

func userKey(userID uuid.UUID, parts ...string) string {
	key := fmt.Sprintf("%s:%s", keyPrefix, userID.String())
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (s *redisStore) SetCalendarCredentials(ctx context.Context, userID uuid.UUID, creds *models.CalendarCredentials) error {
	if !models.ValidCalendarProvider(creds.Provider) {
		return fmt.Errorf("unknown calendar provider %q", creds.Provider)
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	ttl := defaultCredentialTTL
	if creds.ExpiresAt != nil {
		if until := time.Until(*creds.ExpiresAt); until > 0 {
			ttl = until
		}
	}
	return s.client.Set(ctx, userKey(userID, "calendar", creds.Provider), data, ttl).Err()
}

// GetCalendarCredentials returns nil for missing credentials. Expired
// credentials are treated as absent and removed.
func (s *redisStore) GetCalendarCredentials(ctx context.Context, userID uuid.UUID, provider string) (*models.CalendarCredentials, error) {
	key := userKey(userID, "calendar", provider)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var creds models.CalendarCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	if creds.Expired(time.Now()) {
		_ = s.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &creds, nil
}

func (s *redisStore) ClearCalendarCredentials(ctx context.Context, userID uuid.UUID, provider string) error {
	return s.client.Del(ctx, userKey(userID, "calendar", provider)).Err()
}

func (s *redisStore) StartImpersonation(ctx context.Context, adminID, targetID uuid.UUID) error {
	return s.client.Set(ctx, userKey(adminID, "impersonation"), targetID.String(), defaultImpersonateTTL).Err()
}

func (s *redisStore) GetImpersonation(ctx context.Context, adminID uuid.UUID) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, userKey(adminID, "impersonation")).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	targetID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt impersonation marker: %w", err)
	}
	return targetID, true, nil
}

func (s *redisStore) ClearImpersonation(ctx context.Context, adminID uuid.UUID) error {
	return s.client.Del(ctx, userKey(adminID, "impersonation")).Err()
}

func (s *redisStore) RememberDevice(ctx context.Context, userID uuid.UUID, deviceID string) error {
	return s.client.SAdd(ctx, userKey(userID, "devices"), deviceID).Err()
}

func (s *redisStore) IsKnownDevice(ctx context.Context, userID uuid.UUID, deviceID string) (bool, error) {
	return s.client.SIsMember(ctx, userKey(userID, "devices"), deviceID).Result()
}

// ClearUser removes every session key scoped to userID and nothing else.
func (s *redisStore) ClearUser(ctx context.Context, userID uuid.UUID) error {
	pattern := userKey(userID) + ":*"
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
