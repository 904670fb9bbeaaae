package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	inboxKeyPrefix = "mentorhub:inbox:"
	inboxCap       = 100
	inboxTTL       = 30 * 24 * time.Hour
)

// NotificationService keeps a per-user in-app notification feed. The feed is
// ephemeral: newest-first, capped, and expires with inactivity.
type NotificationService interface {
	Push(ctx context.Context, userID uuid.UUID, notification *models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewNotificationService creates a Redis-backed notification feed.
func NewNotificationService(redisAddr, redisPassword string, redisDB int, logger *zap.Logger) NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &notificationService{
		redisClient: redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
		logger: logger,
	}
}

func inboxKey(userID uuid.UUID) string {
	return inboxKeyPrefix + userID.String()
}

// Push prepends the notification to the user's feed and trims it to the cap.
func (s *notificationService) Push(ctx context.Context, userID uuid.UUID, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	notification.Type = models.NotificationTypeInApp

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := inboxKey(userID)
	pipe := s.redisClient.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, inboxCap-1)
	pipe.Expire(ctx, key, inboxTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}

// ListForUser returns the newest notifications first. Entries that fail to
// decode are skipped rather than poisoning the feed.
func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > inboxCap {
		limit = inboxCap
	}

	raw, err := s.redisClient.LRange(ctx, inboxKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return []*models.Notification{}, nil
		}
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	notifications := make([]*models.Notification, 0, len(raw))
	for _, entry := range raw {
		var n models.Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			s.logger.Warn("dropping undecodable notification",
				zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (s *notificationService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.redisClient.Del(ctx, inboxKey(userID)).Err()
}
