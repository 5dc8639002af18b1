package exhibitions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

// Sortable fields for exhibition listings. Anything else is rejected before a
// query is built.
var sortColumns = map[string]string{
	"created_at":  "e.created_at",
	"likes_count": "COALESCE(l.likes_count, 0)",
	"rating":      "e.rating",
	"title":       "e.title",
}

// ListParams are the composite listing inputs: filters, sort and page window,
// plus the optional viewer for like flags.
type ListParams struct {
	OrganizationID *uuid.UUID
	Status         *models.ExhibitionStatus
	TitleQuery     string
	SortBy         string
	SortDesc       bool
	Skip           int
	Limit          int
	ViewerID       *uuid.UUID
}

// listPlan is the fully resolved query plan: validated sort, rendered WHERE
// clause and its arguments. Building it up front keeps validation separate
// from SQL assembly.
type listPlan struct {
	where   string
	args    []any
	orderBy string
	skip    int
	limit   int
}

// buildPlan validates params and resolves them into a plan. Invalid sort
// fields fail here, before any SQL runs.
func buildPlan(p ListParams) (*listPlan, error) {
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unsupported sort field %q", p.SortBy))
	}
	dir := "ASC"
	if p.SortDesc {
		dir = "DESC"
	}

	plan := &listPlan{
		// id tiebreaker keeps paging stable when the sort key has duplicates.
		orderBy: fmt.Sprintf("%s %s NULLS LAST, e.id ASC", col, dir),
		skip:    p.Skip,
		limit:   p.Limit,
	}
	if plan.skip < 0 {
		plan.skip = 0
	}
	if plan.limit <= 0 || plan.limit > 100 {
		plan.limit = 20
	}

	var conds []string
	if p.OrganizationID != nil {
		plan.args = append(plan.args, *p.OrganizationID)
		conds = append(conds, fmt.Sprintf("e.organization_id = $%d", len(plan.args)))
	}
	if p.Status != nil {
		plan.args = append(plan.args, *p.Status)
		conds = append(conds, fmt.Sprintf("e.status = $%d", len(plan.args)))
	}
	if p.TitleQuery != "" {
		// Case-sensitive prefix match.
		plan.args = append(plan.args, escapeLike(p.TitleQuery)+"%")
		conds = append(conds, fmt.Sprintf("e.title LIKE $%d", len(plan.args)))
	}
	if len(conds) > 0 {
		plan.where = " WHERE " + strings.Join(conds, " AND ")
	}
	return plan, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// detailSelect assembles the full read model in one round trip: tags,
// participants and blocks (with nested items) as json_agg subqueries, likes
// as a grouped count. Each aggregate LEFT JOINs so exhibitions with no rows
// still appear, with COALESCE supplying empty collections.
const detailSelect = `SELECT e.id, e.title, e.description, e.cover_image_key, e.cover_type, e.status,
		e.rating, e.settings, e.organization_id, e.created_at, e.updated_at,
		COALESCE(l.likes_count, 0),
		COALESCE(t.tags, '[]'::json),
		COALESCE(p.participants, '[]'::json),
		COALESCE(b.blocks, '[]'::json)
	FROM exhibitions e
	LEFT JOIN (
		SELECT exhibition_id, COUNT(*) AS likes_count
		FROM user_exhibition_likes GROUP BY exhibition_id
	) l ON l.exhibition_id = e.id
	LEFT JOIN (
		SELECT et.exhibition_id, json_agg(json_build_object(
			'id', t.id, 'name', t.name, 'created_at', t.created_at
		) ORDER BY t.name) AS tags
		FROM exhibition_tags et
		INNER JOIN tags t ON t.id = et.tag_id
		GROUP BY et.exhibition_id
	) t ON t.exhibition_id = e.id
	LEFT JOIN (
		SELECT exhibition_id, json_agg(json_build_object(
			'id', id, 'exhibition_id', exhibition_id, 'name', name, 'created_at', created_at
		) ORDER BY created_at, id) AS participants
		FROM exhibition_participants
		GROUP BY exhibition_id
	) p ON p.exhibition_id = e.id
	LEFT JOIN (
		SELECT eb.exhibition_id, json_agg(json_build_object(
			'id', eb.id, 'exhibition_id', eb.exhibition_id, 'type', eb.type,
			'content', eb.content, 'settings', eb.settings, 'position', eb.position,
			'created_at', eb.created_at, 'updated_at', eb.updated_at,
			'items', COALESCE(bi.items, '[]'::json)
		) ORDER BY eb.position) AS blocks
		FROM exhibition_blocks eb
		LEFT JOIN (
			SELECT block_id, json_agg(json_build_object(
				'id', id, 'block_id', block_id, 'image_key', image_key,
				'text', text, 'position', position, 'created_at', created_at
			) ORDER BY position) AS items
			FROM exhibition_block_items
			GROUP BY block_id
		) bi ON bi.block_id = eb.id
		GROUP BY eb.exhibition_id
	) b ON b.exhibition_id = e.id`

func scanDetail(row interface{ Scan(dest ...any) error }) (*models.ExhibitionDetail, error) {
	var (
		d          models.ExhibitionDetail
		tagsJSON   []byte
		partsJSON  []byte
		blocksJSON []byte
	)
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.CoverImageKey, &d.CoverType, &d.Status,
		&d.Rating, &d.Settings, &d.OrganizationID, &d.CreatedAt, &d.UpdatedAt,
		&d.LikesCount, &tagsJSON, &partsJSON, &blocksJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &d.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(partsJSON, &d.Participants); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	if err := json.Unmarshal(blocksJSON, &d.Blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	if d.Tags == nil {
		d.Tags = []models.Tag{}
	}
	if d.Participants == nil {
		d.Participants = []models.Participant{}
	}
	if d.Blocks == nil {
		d.Blocks = []models.BlockDetail{}
	}
	return &d, nil
}

// List runs the composite exhibition query: one page of assembled read models
// plus the unpaginated total for the same filters.
func (r *Repository) List(ctx context.Context, p ListParams) (*models.ExhibitionPage, error) {
	plan, err := buildPlan(p)
	if err != nil {
		return nil, err
	}

	var count int
	countQ := `SELECT COUNT(*) FROM exhibitions e` + plan.where
	if err := r.pool.QueryRow(ctx, countQ, plan.args...).Scan(&count); err != nil {
		return nil, err
	}

	args := append(append([]any{}, plan.args...), plan.skip, plan.limit)
	q := fmt.Sprintf("%s%s ORDER BY %s OFFSET $%d LIMIT $%d",
		detailSelect, plan.where, plan.orderBy, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ExhibitionDetail, 0, plan.limit)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.applyLikeFlags(ctx, items, p.ViewerID); err != nil {
		return nil, err
	}

	return &models.ExhibitionPage{Data: items, Count: count, Skip: plan.skip, Limit: plan.limit}, nil
}

// GetDetail returns one assembled exhibition read model.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*models.ExhibitionDetail, error) {
	q := detailSelect + ` WHERE e.id = $1`
	d, err := scanDetail(r.pool.QueryRow(ctx, q, id))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("exhibition")
	}
	if err != nil {
		return nil, err
	}
	one := []models.ExhibitionDetail{*d}
	if err := r.applyLikeFlags(ctx, one, viewerID); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// applyLikeFlags resolves is_liked for the viewer over the page's ids in a
// second pass. Anonymous viewers keep nil flags.
func (r *Repository) applyLikeFlags(ctx context.Context, items []models.ExhibitionDetail, viewerID *uuid.UUID) error {
	if viewerID == nil || len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	const q = `SELECT exhibition_id FROM user_exhibition_likes
		WHERE user_id = $1 AND exhibition_id = ANY($2)`
	rows, err := r.pool.Query(ctx, q, *viewerID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	liked := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range items {
		flag := liked[items[i].ID]
		items[i].IsLiked = &flag
	}
	return nil
}
