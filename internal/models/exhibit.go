package models

import (
	"time"

	"github.com/google/uuid"
)

// ExhibitType classifies a physical exhibit.
type ExhibitType string

const (
	ExhibitPainting  ExhibitType = "painting"
	ExhibitSculpture ExhibitType = "sculpture"
	ExhibitOther     ExhibitType = "other"
)

// DateTemplate controls how an exhibit's date range is displayed.
type DateTemplate string

const (
	DateYear    DateTemplate = "year"
	DateDecade  DateTemplate = "decade"
	DateCentury DateTemplate = "century"
)

// Exhibit is a single artifact owned by an organization.
type Exhibit struct {
	ID             uuid.UUID    `json:"id"`
	OrganizationID uuid.UUID    `json:"organization_id"`
	Title          string       `json:"title"`
	Author         string       `json:"author"`
	Description    string       `json:"description"`
	ExhibitType    ExhibitType  `json:"exhibit_type"`
	ImageKey       string       `json:"image_key"`
	DateTemplate   DateTemplate `json:"date_template"`
	StartYear      *int         `json:"start_year,omitempty"`
	EndYear        *int         `json:"end_year,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
