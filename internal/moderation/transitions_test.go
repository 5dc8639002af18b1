package moderation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

var allExhibitionStatuses = []models.ExhibitionStatus{
	models.ExhibitionDraft,
	models.ExhibitionOnMoReview,
	models.ExhibitionOnMoRevision,
	models.ExhibitionReadyForPlatform,
	models.ExhibitionAwaitingReview,
	models.ExhibitionPublished,
	models.ExhibitionNeedsRevision,
	models.ExhibitionChangesPendingReview,
}

var allOrgStatuses = []models.OrgStatus{
	models.OrgDraft,
	models.OrgOnModeration,
	models.OrgNeedsRevision,
	models.OrgApproved,
}

func TestExhibitionTransitionsExhaustive(t *testing.T) {
	allowed := make(map[[2]models.ExhibitionStatus]bool)
	allow := func(from, to models.ExhibitionStatus) {
		allowed[[2]models.ExhibitionStatus{from, to}] = true
	}
	allow(models.ExhibitionDraft, models.ExhibitionOnMoReview)
	allow(models.ExhibitionOnMoReview, models.ExhibitionOnMoRevision)
	allow(models.ExhibitionOnMoReview, models.ExhibitionReadyForPlatform)
	allow(models.ExhibitionOnMoRevision, models.ExhibitionOnMoReview)
	allow(models.ExhibitionReadyForPlatform, models.ExhibitionAwaitingReview)
	allow(models.ExhibitionAwaitingReview, models.ExhibitionPublished)
	allow(models.ExhibitionAwaitingReview, models.ExhibitionNeedsRevision)
	allow(models.ExhibitionNeedsRevision, models.ExhibitionAwaitingReview)
	allow(models.ExhibitionPublished, models.ExhibitionChangesPendingReview)
	allow(models.ExhibitionChangesPendingReview, models.ExhibitionPublished)
	allow(models.ExhibitionChangesPendingReview, models.ExhibitionNeedsRevision)

	for _, from := range allExhibitionStatuses {
		for _, to := range allExhibitionStatuses {
			want := allowed[[2]models.ExhibitionStatus{from, to}]
			assert.Equal(t, want, CanTransitionExhibition(from, to),
				fmt.Sprintf("%s -> %s", from, to))
		}
	}
}

func TestOrganizationTransitionsExhaustive(t *testing.T) {
	allowed := map[[2]models.OrgStatus]bool{
		{models.OrgDraft, models.OrgOnModeration}:         true,
		{models.OrgOnModeration, models.OrgApproved}:      true,
		{models.OrgOnModeration, models.OrgNeedsRevision}: true,
		{models.OrgNeedsRevision, models.OrgOnModeration}: true,
	}

	for _, from := range allOrgStatuses {
		for _, to := range allOrgStatuses {
			want := allowed[[2]models.OrgStatus{from, to}]
			assert.Equal(t, want, CanTransitionOrganization(from, to),
				fmt.Sprintf("%s -> %s", from, to))
		}
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	for _, to := range allOrgStatuses {
		assert.False(t, CanTransitionOrganization(models.OrgApproved, to),
			"approved must not transition to %s", to)
	}
}

func TestSelfTransitionsRejected(t *testing.T) {
	for _, s := range allExhibitionStatuses {
		assert.False(t, CanTransitionExhibition(s, s), "%s->%s", s, s)
	}
	for _, s := range allOrgStatuses {
		assert.False(t, CanTransitionOrganization(s, s), "%s->%s", s, s)
	}
}

func TestCheckTransitionErrorKind(t *testing.T) {
	err := CheckExhibitionTransition(models.ExhibitionDraft, models.ExhibitionPublished)
	require.Error(t, err)
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "draft")
	assert.Contains(t, err.Error(), "published")

	require.NoError(t, CheckExhibitionTransition(models.ExhibitionDraft, models.ExhibitionOnMoReview))
	require.NoError(t, CheckOrganizationTransition(models.OrgDraft, models.OrgOnModeration))

	err = CheckOrganizationTransition(models.OrgDraft, models.OrgApproved)
	require.Error(t, err)
	assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
}
