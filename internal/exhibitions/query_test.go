package exhibitions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

func TestBuildPlanDefaults(t *testing.T) {
	plan, err := buildPlan(ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "e.created_at ASC NULLS LAST, e.id ASC", plan.orderBy)
	assert.Empty(t, plan.where)
	assert.Empty(t, plan.args)
	assert.Equal(t, 0, plan.skip)
	assert.Equal(t, 20, plan.limit)
}

func TestBuildPlanSortAllowList(t *testing.T) {
	for field, col := range map[string]string{
		"created_at":  "e.created_at",
		"likes_count": "COALESCE(l.likes_count, 0)",
		"rating":      "e.rating",
		"title":       "e.title",
	} {
		plan, err := buildPlan(ListParams{SortBy: field, SortDesc: true})
		require.NoError(t, err, field)
		assert.Equal(t, col+" DESC NULLS LAST, e.id ASC", plan.orderBy, field)
	}
}

func TestBuildPlanRejectsUnknownSort(t *testing.T) {
	for _, field := range []string{"password_hash", "id; DROP TABLE exhibitions", "Created_At", "likes"} {
		_, err := buildPlan(ListParams{SortBy: field})
		require.Error(t, err, field)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), field)
	}
}

func TestBuildPlanFilters(t *testing.T) {
	orgID := uuid.New()
	status := models.ExhibitionPublished
	plan, err := buildPlan(ListParams{
		OrganizationID: &orgID,
		Status:         &status,
		TitleQuery:     "Impress",
	})
	require.NoError(t, err)
	assert.Equal(t, " WHERE e.organization_id = $1 AND e.status = $2 AND e.title LIKE $3", plan.where)
	require.Len(t, plan.args, 3)
	assert.Equal(t, orgID, plan.args[0])
	assert.Equal(t, status, plan.args[1])
	assert.Equal(t, "Impress%", plan.args[2])
}

func TestBuildPlanEscapesLikeMetacharacters(t *testing.T) {
	plan, err := buildPlan(ListParams{TitleQuery: "100%_sure"})
	require.NoError(t, err)
	require.Len(t, plan.args, 1)
	assert.Equal(t, `100\%\_sure%`, plan.args[0])
}

func TestBuildPlanPageWindow(t *testing.T) {
	plan, err := buildPlan(ListParams{Skip: -5, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, plan.skip)
	assert.Equal(t, 20, plan.limit)

	plan, err = buildPlan(ListParams{Skip: 40, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 40, plan.skip)
	assert.Equal(t, 20, plan.limit)

	plan, err = buildPlan(ListParams{Skip: 10, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 10, plan.skip)
	assert.Equal(t, 50, plan.limit)
}
