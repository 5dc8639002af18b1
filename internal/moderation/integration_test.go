package moderation_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/blocks"
	"github.com/galereya/backend/internal/exhibitions"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/internal/moderation"
	"github.com/galereya/backend/internal/tags"
	"github.com/galereya/backend/internal/users"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/database"
)

// These tests need a live PostgreSQL; they run only when TEST_DATABASE_URL is
// set. Each test starts from an empty schema.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE users, organizations, exhibitions, exhibits, tags, admin_actions CASCADE`)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool, email string, role models.Role) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, name, surname, role) VALUES ($1, 'Test', 'User', $2) RETURNING id`,
		email, role).Scan(&id)
	require.NoError(t, err)
	return id
}

func createExhibition(t *testing.T, pool *pgxpool.Pool, title string, status models.ExhibitionStatus) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO exhibitions (title, cover_image_key, status) VALUES ($1, 'cover.jpg', $2) RETURNING id`,
		title, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func newExhibitionsRepo(pool *pgxpool.Pool) *exhibitions.Repository {
	return exhibitions.NewRepository(pool, tags.NewRepository(pool))
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestTransitionRollsBackAsOneUnit(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	admin := createUser(t, pool, "admin@example.com", models.RoleAdmin)
	ex := createExhibition(t, pool, "Spring Salon", models.ExhibitionDraft)
	svc := moderation.NewService(pool, newExhibitionsRepo(pool), zap.NewNop())

	// A comment over the column limit fails the trail write after the status
	// update has already run inside the transaction.
	comment := strings.Repeat("x", 2001)
	_, err := svc.TransitionExhibition(ctx, ex, models.ExhibitionOnMoReview, &comment, admin)
	require.Error(t, err)

	var status models.ExhibitionStatus
	require.NoError(t, pool.QueryRow(ctx, `SELECT status FROM exhibitions WHERE id = $1`, ex).Scan(&status))
	assert.Equal(t, models.ExhibitionDraft, status)
	assert.Zero(t, countRows(t, pool, "exhibition_moderation_comments"))
	assert.Zero(t, countRows(t, pool, "admin_actions"))
}

func TestModeratedEntitiesStayDeletable(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	admin := createUser(t, pool, "admin@example.com", models.RoleAdmin)
	ex := createExhibition(t, pool, "Spring Salon", models.ExhibitionDraft)
	svc := moderation.NewService(pool, newExhibitionsRepo(pool), zap.NewNop())

	comment := "looks ready"
	_, err := svc.TransitionExhibition(ctx, ex, models.ExhibitionOnMoReview, &comment, admin)
	require.NoError(t, err)

	require.NoError(t, newExhibitionsRepo(pool).Delete(ctx, ex))

	// The audit row outlives the exhibition with its reference cleared.
	var n int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admin_actions WHERE target_exhibition_id IS NULL`).Scan(&n))
	assert.Equal(t, 1, n)

	// The acting admin can be deleted too; their actions stay.
	require.NoError(t, users.NewRepository(pool).Delete(ctx, admin))
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admin_actions WHERE admin_id IS NULL`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestDuplicateLikeConflicts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createUser(t, pool, "viewer@example.com", models.RoleUser)
	ex := createExhibition(t, pool, "Spring Salon", models.ExhibitionPublished)
	repo := newExhibitionsRepo(pool)

	require.NoError(t, repo.Like(ctx, ex, user))
	err := repo.Like(ctx, ex, user)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, repo.Unlike(ctx, ex, user))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(repo.Unlike(ctx, ex, user)))
}

func TestListCountIndependentOfPaging(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		createExhibition(t, pool, fmt.Sprintf("Expo %d", i), models.ExhibitionPublished)
	}
	repo := newExhibitionsRepo(pool)

	page, err := repo.List(ctx, exhibitions.ListParams{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Empty(t, page.Data)

	page, err = repo.List(ctx, exhibitions.ListParams{Skip: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Data, 2)
}

func TestBlockChangesGatedByParentStatus(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	ex := createExhibition(t, pool, "Spring Salon", models.ExhibitionDraft)
	repo := blocks.NewRepository(pool)

	content := "<p>hello</p>"
	b, err := repo.Create(ctx, ex, blocks.CreateBlock{Type: models.BlockText, Content: &content})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE exhibitions SET status = 'on_mo_review' WHERE id = $1`, ex)
	require.NoError(t, err)

	edited := "<p>edited</p>"
	_, err = repo.Update(ctx, ex, b.ID, blocks.UpdateBlock{Content: &edited})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(repo.Delete(ctx, ex, b.ID)))

	_, err = pool.Exec(ctx, `UPDATE exhibitions SET status = 'published' WHERE id = $1`, ex)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, ex, b.ID))
}
