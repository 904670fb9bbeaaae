package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType represents the delivery channel of a notification.
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeInApp NotificationType = "in_app"
)

// Notification event types raised by the platform.
const (
	EventTrialEnding   = "trial_ending"
	EventTrialEnded    = "trial_ended"
	EventAdminMessage  = "admin_message"
	EventDeviceRevoked = "device_revoked"
)

// Notification represents a dispatched message. Email notifications are sent
// through SMTP; in-app notifications are ephemeral and expire with the session.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	EventType string           `json:"event_type"`
	Recipient string           `json:"recipient"`
	Subject   *string          `json:"subject,omitempty"`
	Body      string           `json:"body"`
	SenderID  *uuid.UUID       `json:"sender_id,omitempty"`
	OrgScope  *string          `json:"org_scope,omitempty"`
	Status    string           `json:"status"`
	Error     *string          `json:"error,omitempty"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
