package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mentorhub/internal/models"
	"mentorhub/internal/repositories"
	"mentorhub/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeviceService tracks the devices a user has signed in from and supports
// revoking them. Revocation deletes the row and is audit-logged.
type DeviceService interface {
	Register(ctx context.Context, req *RegisterDeviceRequest) (*models.Device, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Device, error)
	Touch(ctx context.Context, userID uuid.UUID, deviceID string) error
	Revoke(ctx context.Context, userID, id uuid.UUID, actorID uuid.UUID, orgID string) error
	CleanupInactive(ctx context.Context, retention time.Duration) (int64, error)
}

// RegisterDeviceRequest records one sign-in device.
type RegisterDeviceRequest struct {
	UserID     uuid.UUID `json:"-"`
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	Platform   string    `json:"platform"`
	Location   *string   `json:"location,omitempty"`
}

type deviceService struct {
	deviceRepo repositories.DeviceRepository
	auditRepo  repositories.AuditLogsRepository
	sessions   session.Store
	notifier   NotificationService
	logger     *zap.Logger
}

func NewDeviceService(deviceRepo repositories.DeviceRepository, auditRepo repositories.AuditLogsRepository,
	sessions session.Store, notifier NotificationService, logger *zap.Logger) DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &deviceService{
		deviceRepo: deviceRepo,
		auditRepo:  auditRepo,
		sessions:   sessions,
		notifier:   notifier,
		logger:     logger,
	}
}

// Register upserts the device row and remembers the device id in the user's
// session context.
func (s *deviceService) Register(ctx context.Context, req *RegisterDeviceRequest) (*models.Device, error) {
	if strings.TrimSpace(req.DeviceID) == "" {
		return nil, fmt.Errorf("device id is required")
	}
	if strings.TrimSpace(req.Platform) == "" {
		return nil, fmt.Errorf("platform is required")
	}

	device := &models.Device{
		ID:         uuid.New(),
		UserID:     req.UserID,
		DeviceID:   req.DeviceID,
		DeviceName: req.DeviceName,
		Platform:   req.Platform,
		Location:   req.Location,
	}
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.RememberDevice(ctx, req.UserID, req.DeviceID); err != nil {
			s.logger.Warn("failed to remember device in session",
				zap.String("user_id", req.UserID.String()), zap.Error(err))
		}
	}
	return device, nil
}

func (s *deviceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Device, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}

// Touch bumps last_active_at on an authenticated request.
func (s *deviceService) Touch(ctx context.Context, userID uuid.UUID, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return s.deviceRepo.Touch(ctx, userID, deviceID)
}

// Revoke deletes the device row after checking ownership, then records the
// revocation.
func (s *deviceService) Revoke(ctx context.Context, userID, id uuid.UUID, actorID uuid.UUID, orgID string) error {
	device, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if device.UserID != userID {
		return fmt.Errorf("device does not belong to user")
	}

	if err := s.deviceRepo.Delete(ctx, id); err != nil {
		return err
	}

	audit := &models.AuditLog{
		OrganizationID: orgID,
		EntityType:     "device",
		EntityID:       id.String(),
		Action:         models.ActionRevoke,
		ActorID:        &actorID,
		OldValues: models.JSONB{
			"device_id":   device.DeviceID,
			"device_name": device.DeviceName,
			"platform":    device.Platform,
		},
	}
	if err := s.auditRepo.Create(ctx, audit); err != nil {
		s.logger.Warn("failed to audit device revocation", zap.Error(err))
	}

	if s.notifier != nil {
		name := device.DeviceName
		if name == "" {
			name = device.Platform
		}
		notice := &models.Notification{
			EventType: models.EventDeviceRevoked,
			Recipient: userID.String(),
			Body:      fmt.Sprintf("Device %q was signed out", name),
			OrgScope:  &orgID,
		}
		if err := s.notifier.Push(ctx, userID, notice); err != nil {
			s.logger.Warn("failed to push device revocation notice", zap.Error(err))
		}
	}
	return nil
}

// CleanupInactive drops devices idle past the retention window. Run by the
// daily job.
func (s *deviceService) CleanupInactive(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.deviceRepo.DeleteInactiveBefore(ctx, cutoff)
}
