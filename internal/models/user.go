package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformOrgID is the sentinel organization id carried by platform-level
// users that do not belong to any tenant organization.
const PlatformOrgID = "platform"

// Mood values accepted on profiles.
const (
	MoodGreat      = "great"
	MoodGood       = "good"
	MoodOkay       = "okay"
	MoodStruggling = "struggling"
)

// DefaultMaxMentees is the mentor capacity applied when none is set.
const DefaultMaxMentees = 2

type User struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	OrganizationID      string    `json:"organization_id" db:"organization_id"` // org uuid string or PlatformOrgID
	Email               string    `json:"email" db:"email"`
	PasswordHash        string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Name                string    `json:"name" db:"name"`
	Role                string    `json:"role" db:"role"` // canonical, normalized on read
	AvatarURL           *string   `json:"avatar_url" db:"avatar_url"`
	Title               *string   `json:"title" db:"title"`
	Company             *string   `json:"company" db:"company"`
	Bio                 *string   `json:"bio" db:"bio"`
	Skills              []string  `json:"skills" db:"skills"`
	Goals               []string  `json:"goals" db:"goals"` // mentee-only
	Mood                *string   `json:"mood" db:"mood"`
	AcceptingNewMentees bool      `json:"accepting_new_mentees" db:"accepting_new_mentees"` // mentor-only
	MaxMentees          int       `json:"max_mentees" db:"max_mentees"`                     // mentor-only
	GoalsPublic         bool      `json:"goals_public" db:"goals_public"`                   // mentee-only, defaults false
	Status              string    `json:"status" db:"status"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// IsPlatformUser reports whether the user sits outside any tenant organization.
func (u *User) IsPlatformUser() bool {
	return u.OrganizationID == PlatformOrgID
}
