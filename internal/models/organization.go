package models

import (
	"time"

	"github.com/google/uuid"
)

// OrgStatus is an organization's moderation status.
type OrgStatus string

const (
	OrgDraft         OrgStatus = "draft"
	OrgOnModeration  OrgStatus = "on_moderation"
	OrgNeedsRevision OrgStatus = "needs_revision"
	OrgApproved      OrgStatus = "approved"
)

// Valid reports whether s is a known organization status.
func (s OrgStatus) Valid() bool {
	switch s {
	case OrgDraft, OrgOnModeration, OrgNeedsRevision, OrgApproved:
		return true
	}
	return false
}

// Organization represents a tenant publishing exhibitions.
type Organization struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ContactInfo  *string   `json:"contact_info,omitempty"`
	Description  *string   `json:"description,omitempty"`
	LogoKey      *string   `json:"logo_key,omitempty"`
	Status       OrgStatus `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MembershipStatus is the lifecycle status of a user's organization membership.
type MembershipStatus string

const (
	MemberActive MembershipStatus = "active"
	MemberLeft   MembershipStatus = "left"
)

// Membership links a user to an organization with its own lifecycle,
// independent of the organization's moderation status.
type Membership struct {
	OrganizationID uuid.UUID        `json:"organization_id"`
	UserID         uuid.UUID        `json:"user_id"`
	Status         MembershipStatus `json:"status"`
	Position       *string          `json:"position,omitempty"`
	JoinedAt       time.Time        `json:"joined_at"`
	LeftAt         *time.Time       `json:"left_at,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// OrganizationMember pairs a member's user record with their membership row.
type OrganizationMember struct {
	User       UserPublic `json:"user"`
	Membership Membership `json:"membership"`
}
