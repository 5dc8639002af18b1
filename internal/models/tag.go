package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a case-normalized label attached to exhibitions.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Like records that a user liked an exhibition. One row per (user, exhibition).
type Like struct {
	ExhibitionID uuid.UUID `json:"exhibition_id"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
