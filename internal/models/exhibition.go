package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExhibitionStatus is an exhibition's moderation status.
type ExhibitionStatus string

const (
	ExhibitionDraft                ExhibitionStatus = "draft"
	ExhibitionOnMoReview           ExhibitionStatus = "on_mo_review"
	ExhibitionOnMoRevision         ExhibitionStatus = "on_mo_revision"
	ExhibitionReadyForPlatform     ExhibitionStatus = "ready_for_platform"
	ExhibitionAwaitingReview       ExhibitionStatus = "awaiting_platform_review"
	ExhibitionPublished            ExhibitionStatus = "published"
	ExhibitionNeedsRevision        ExhibitionStatus = "needs_revision_after_moderation"
	ExhibitionChangesPendingReview ExhibitionStatus = "published_changes_pending_review"
)

// Valid reports whether s is a known exhibition status.
func (s ExhibitionStatus) Valid() bool {
	switch s {
	case ExhibitionDraft, ExhibitionOnMoReview, ExhibitionOnMoRevision,
		ExhibitionReadyForPlatform, ExhibitionAwaitingReview,
		ExhibitionPublished, ExhibitionNeedsRevision, ExhibitionChangesPendingReview:
		return true
	}
	return false
}

// CoverType says whether the cover image renders inside or outside the layout.
type CoverType string

const (
	CoverInside  CoverType = "inside"
	CoverOutside CoverType = "outside"
)

// Exhibition is the base exhibition record.
type Exhibition struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	CoverImageKey  string           `json:"cover_image_key"`
	CoverType      CoverType        `json:"cover_type"`
	Status         ExhibitionStatus `json:"status"`
	Rating         float64          `json:"rating"`
	Settings       json.RawMessage  `json:"settings"`
	OrganizationID *uuid.UUID       `json:"organization_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Participant is a named contributor to an exhibition.
type Participant struct {
	ID           uuid.UUID `json:"id"`
	ExhibitionID uuid.UUID `json:"exhibition_id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExhibitionDetail is the fully assembled read model: base record plus
// denormalized tags, participants, blocks and like data.
type ExhibitionDetail struct {
	Exhibition
	Tags         []Tag         `json:"tags"`
	Participants []Participant `json:"participants"`
	Blocks       []BlockDetail `json:"blocks"`
	LikesCount   int           `json:"likes_count"`
	// IsLiked is nil for anonymous viewers.
	IsLiked *bool `json:"is_liked_by_current_user,omitempty"`
}

// ExhibitionPage is one page of exhibitions with the unpaginated total.
type ExhibitionPage struct {
	Data  []ExhibitionDetail `json:"data"`
	Count int                `json:"count"`
	Skip  int                `json:"skip"`
	Limit int                `json:"limit"`
}
