package models

import (
	"time"

	"github.com/google/uuid"
)

// Device represents an active login session on a physical device. Revoking a
// device deletes the row; there is no soft-delete state.
type Device struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	DeviceID     string    `json:"device_id" db:"device_id"`
	DeviceName   string    `json:"device_name" db:"device_name"`
	Platform     string    `json:"platform" db:"platform"`
	Location     *string   `json:"location" db:"location"`
	LastActiveAt time.Time `json:"last_active_at" db:"last_active_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
