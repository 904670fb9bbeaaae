package repositories

import (
	"context"
	"time"

	"mentorhub/internal/models"

	"github.com/google/uuid"
)

type DeviceRepository interface {
	Upsert(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Device, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Device, error)
	Touch(ctx context.Context, userID uuid.UUID, deviceID string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type deviceRepo struct {
	db DB
}

func NewDeviceRepo(db DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) Upsert(ctx context.Context, device *models.Device) error {
	query := `
		INSERT INTO devices (id, user_id, device_id, device_name, platform, location, last_active_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id, device_id) DO UPDATE
		SET device_name = EXCLUDED.device_name, platform = EXCLUDED.platform,
			location = EXCLUDED.location, last_active_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, device.ID, device.UserID, device.DeviceID, device.DeviceName,
		device.Platform, device.Location)
	return err
}

func (r *deviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	device := &models.Device{}
	query := `
		SELECT id, user_id, device_id, device_name, platform, location, last_active_at, created_at
		FROM devices
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&device.ID, &device.UserID, &device.DeviceID,
		&device.DeviceName, &device.Platform, &device.Location, &device.LastActiveAt, &device.CreatedAt)
	if err != nil {
		return nil, err
	}
	return device, nil
}

func (r *deviceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Device, error) {
	query := `
		SELECT id, user_id, device_id, device_name, platform, location, last_active_at, created_at
		FROM devices
		WHERE user_id = $1
		ORDER BY last_active_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device := &models.Device{}
		if err := rows.Scan(&device.ID, &device.UserID, &device.DeviceID, &device.DeviceName,
			&device.Platform, &device.Location, &device.LastActiveAt, &device.CreatedAt); err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

func (r *deviceRepo) Touch(ctx context.Context, userID uuid.UUID, deviceID string) error {
	query := `UPDATE devices SET last_active_at = NOW() WHERE user_id = $1 AND device_id = $2`
	_, err := r.db.Exec(ctx, query, userID, deviceID)
	return err
}

func (r *deviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM devices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *deviceRepo) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM devices WHERE last_active_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
