package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB represents PostgreSQL JSONB type
type JSONB map[string]interface{}

// AuditLog records an administrative mutation: who changed what, in which
// organization scope, and with which before/after values.
type AuditLog struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"` // org uuid string or PlatformOrgID
	EntityType     string     `json:"entity_type" db:"entity_type"`         // users, organizations, matches, devices
	EntityID       string     `json:"entity_id" db:"entity_id"`
	Action         string     `json:"action" db:"action"`
	NewValues      JSONB      `json:"new_values" db:"new_values"`
	OldValues      JSONB      `json:"old_values" db:"old_values"`
	ActorID        *uuid.UUID `json:"actor_id" db:"actor_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionRevoke = "REVOKE"
	ActionEmail  = "EMAIL"
)

// AuditLogFilters narrows audit log listings.
type AuditLogFilters struct {
	EntityType *string
	Action     *string
	ActorID    *uuid.UUID
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}
