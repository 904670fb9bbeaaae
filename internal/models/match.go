package models

import (
	"time"

	"github.com/google/uuid"
)

// Match statuses. Only active matches count against a mentor's capacity.
const (
	MatchPending = "PENDING"
	MatchActive  = "ACTIVE"
	MatchPaused  = "PAUSED"
	MatchEnded   = "ENDED"
)

type Match struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	MentorID       uuid.UUID `json:"mentor_id" db:"mentor_id"`
	MenteeID       uuid.UUID `json:"mentee_id" db:"mentee_id"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MentorCapacity is the advisory capacity view for a mentor: how many active
// mentees they carry against their configured maximum.
type MentorCapacity struct {
	MentorID      uuid.UUID `json:"mentor_id"`
	ActiveMentees int       `json:"active_mentees"`
	MaxMentees    int       `json:"max_mentees"`
	AtCapacity    bool      `json:"at_capacity"`
}
