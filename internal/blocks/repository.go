// Package blocks manages exhibition content blocks and their ordered items.
// Positions form a dense 0..n-1 sequence per exhibition; inserts shift
// neighbors and deletes compact the gap.
package blocks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/internal/sanitize"
	"github.com/galereya/backend/pkg/apperr"
)

// Repository handles block persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a blocks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ItemInput is one image item of a multi-image block. Incoming positions are
// ignored; items are stored in list order.
type ItemInput struct {
	ImageKey string  `json:"image_key" binding:"required"`
	Text     *string `json:"text"`
}

// CreateBlock is the input for adding a block to an exhibition.
type CreateBlock struct {
	Type     models.BlockType `json:"type" binding:"required"`
	Content  *string          `json:"content"`
	Settings json.RawMessage  `json:"settings"`
	Position *int             `json:"position"`
	Items    []ItemInput      `json:"items"`
}

// editable reports whether an exhibition's block list may change in the given
// status.
func editable(status models.ExhibitionStatus) bool {
	return status == models.ExhibitionDraft || status == models.ExhibitionPublished
}

// checkEditable locks the parent exhibition row and rejects content changes
// outside the editable statuses.
func checkEditable(ctx context.Context, tx pgx.Tx, exhibitionID uuid.UUID) error {
	var status models.ExhibitionStatus
	err := tx.QueryRow(ctx, `SELECT status FROM exhibitions WHERE id = $1 FOR UPDATE`, exhibitionID).Scan(&status)
	if apperr.IsNoRows(err) {
		return apperr.NotFound("exhibition")
	}
	if err != nil {
		return err
	}
	if !editable(status) {
		return apperr.Validation("exhibition content can only change in draft or published status")
	}
	return nil
}

// Create inserts a block at the requested position. The position is clamped
// to [0, n]; blocks at or after it shift one slot down. Content and item
// captions are sanitized before storage.
func (r *Repository) Create(ctx context.Context, exhibitionID uuid.UUID, in CreateBlock) (*models.BlockDetail, error) {
	if !in.Type.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown block type %q", in.Type))
	}
	settings := in.Settings
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := checkEditable(ctx, tx, exhibitionID); err != nil {
		return nil, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM exhibition_blocks WHERE exhibition_id = $1`, exhibitionID).Scan(&count); err != nil {
		return nil, err
	}
	position := count
	if in.Position != nil {
		position = ClampPosition(*in.Position, count)
	}

	const shift = `UPDATE exhibition_blocks SET position = position + 1, updated_at = NOW()
		WHERE exhibition_id = $1 AND position >= $2`
	if _, err := tx.Exec(ctx, shift, exhibitionID, position); err != nil {
		return nil, err
	}

	const insert = `INSERT INTO exhibition_blocks (id, exhibition_id, type, content, settings, position)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	b := models.Block{
		ExhibitionID: exhibitionID,
		Type:         in.Type,
		Content:      sanitize.HTMLPtr(in.Content),
		Settings:     settings,
		Position:     position,
	}
	if err := tx.QueryRow(ctx, insert, exhibitionID, b.Type, b.Content, settings, position).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	items, err := insertItems(ctx, tx, b.ID, in.Items)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.BlockDetail{Block: b, Items: items}, nil
}

// UpdateBlock is a partial block update. A non-nil Items replaces the whole
// item list.
type UpdateBlock struct {
	Type     *models.BlockType `json:"type"`
	Content  *string           `json:"content"`
	Settings json.RawMessage   `json:"settings"`
	Items    *[]ItemInput      `json:"items"`
}

// Update applies a partial patch to a block and optionally replaces its items.
// The same editability gate as Create applies.
func (r *Repository) Update(ctx context.Context, exhibitionID, blockID uuid.UUID, patch UpdateBlock) (*models.BlockDetail, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown block type %q", *patch.Type))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := checkEditable(ctx, tx, exhibitionID); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = NOW()"}
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Content != nil {
		add("content", sanitize.HTML(*patch.Content))
	}
	if len(patch.Settings) > 0 {
		add("settings", patch.Settings)
	}
	args = append(args, blockID, exhibitionID)
	q := fmt.Sprintf(`UPDATE exhibition_blocks SET %s
		WHERE id = $%d AND exhibition_id = $%d
		RETURNING id, exhibition_id, type, content, settings, position, created_at, updated_at`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	var b models.Block
	err = tx.QueryRow(ctx, q, args...).Scan(&b.ID, &b.ExhibitionID, &b.Type, &b.Content,
		&b.Settings, &b.Position, &b.CreatedAt, &b.UpdatedAt)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("block")
	}
	if err != nil {
		return nil, err
	}

	var items []models.BlockItem
	if patch.Items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM exhibition_block_items WHERE block_id = $1`, blockID); err != nil {
			return nil, err
		}
		items, err = insertItems(ctx, tx, blockID, *patch.Items)
		if err != nil {
			return nil, err
		}
	} else {
		items, err = listItems(ctx, tx, blockID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.BlockDetail{Block: b, Items: items}, nil
}

// Delete removes a block and closes the position gap it leaves. The same
// editability gate as Create applies.
func (r *Repository) Delete(ctx context.Context, exhibitionID, blockID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := checkEditable(ctx, tx, exhibitionID); err != nil {
		return err
	}

	var position int
	err = tx.QueryRow(ctx, `DELETE FROM exhibition_blocks WHERE id = $1 AND exhibition_id = $2 RETURNING position`,
		blockID, exhibitionID).Scan(&position)
	if apperr.IsNoRows(err) {
		return apperr.NotFound("block")
	}
	if err != nil {
		return err
	}

	const compact = `UPDATE exhibition_blocks SET position = position - 1, updated_at = NOW()
		WHERE exhibition_id = $1 AND position > $2`
	if _, err := tx.Exec(ctx, compact, exhibitionID, position); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ClampPosition bounds a requested insert position to the valid range
// [0, count].
func ClampPosition(requested, count int) int {
	if requested < 0 {
		return 0
	}
	if requested > count {
		return count
	}
	return requested
}

func insertItems(ctx context.Context, tx pgx.Tx, blockID uuid.UUID, inputs []ItemInput) ([]models.BlockItem, error) {
	const q = `INSERT INTO exhibition_block_items (id, block_id, image_key, text, position)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at`
	items := make([]models.BlockItem, 0, len(inputs))
	for i, in := range inputs {
		item := models.BlockItem{
			BlockID:  blockID,
			ImageKey: in.ImageKey,
			Text:     sanitize.HTMLPtr(in.Text),
			Position: i,
		}
		if err := tx.QueryRow(ctx, q, blockID, in.ImageKey, item.Text, i).
			Scan(&item.ID, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func listItems(ctx context.Context, tx pgx.Tx, blockID uuid.UUID) ([]models.BlockItem, error) {
	const q = `SELECT id, block_id, image_key, text, position, created_at
		FROM exhibition_block_items WHERE block_id = $1 ORDER BY position`
	rows, err := tx.Query(ctx, q, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []models.BlockItem
	for rows.Next() {
		var it models.BlockItem
		if err := rows.Scan(&it.ID, &it.BlockID, &it.ImageKey, &it.Text, &it.Position, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
