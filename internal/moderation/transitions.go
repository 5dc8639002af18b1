// Package moderation implements the status state machines for exhibitions and
// organizations, the audit trail, and the transition service that applies a
// status change, a moderator comment, and an admin action atomically.
package moderation

import (
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

// exhibitionTransitions maps each exhibition status to the statuses reachable
// from it. Absent source statuses are terminal.
var exhibitionTransitions = map[models.ExhibitionStatus][]models.ExhibitionStatus{
	models.ExhibitionDraft:            {models.ExhibitionOnMoReview},
	models.ExhibitionOnMoReview:       {models.ExhibitionOnMoRevision, models.ExhibitionReadyForPlatform},
	models.ExhibitionOnMoRevision:     {models.ExhibitionOnMoReview},
	models.ExhibitionReadyForPlatform: {models.ExhibitionAwaitingReview},
	models.ExhibitionAwaitingReview:   {models.ExhibitionPublished, models.ExhibitionNeedsRevision},
	models.ExhibitionNeedsRevision:    {models.ExhibitionAwaitingReview},
	models.ExhibitionPublished:        {models.ExhibitionChangesPendingReview},
	models.ExhibitionChangesPendingReview: {
		models.ExhibitionPublished, models.ExhibitionNeedsRevision,
	},
}

// organizationTransitions maps each organization status to the statuses
// reachable from it. Approved is terminal.
var organizationTransitions = map[models.OrgStatus][]models.OrgStatus{
	models.OrgDraft:         {models.OrgOnModeration},
	models.OrgOnModeration:  {models.OrgApproved, models.OrgNeedsRevision},
	models.OrgNeedsRevision: {models.OrgOnModeration},
}

// CanTransitionExhibition reports whether from → to is a legal exhibition
// status change.
func CanTransitionExhibition(from, to models.ExhibitionStatus) bool {
	for _, next := range exhibitionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionOrganization reports whether from → to is a legal organization
// status change.
func CanTransitionOrganization(from, to models.OrgStatus) bool {
	for _, next := range organizationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckExhibitionTransition returns an IllegalTransition error when from → to
// is not permitted.
func CheckExhibitionTransition(from, to models.ExhibitionStatus) error {
	if !CanTransitionExhibition(from, to) {
		return apperr.IllegalTransition(string(from), string(to))
	}
	return nil
}

// CheckOrganizationTransition returns an IllegalTransition error when from →
// to is not permitted.
func CheckOrganizationTransition(from, to models.OrgStatus) error {
	if !CanTransitionOrganization(from, to) {
		return apperr.IllegalTransition(string(from), string(to))
	}
	return nil
}

