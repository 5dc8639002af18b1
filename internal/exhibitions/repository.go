// Package exhibitions holds the exhibition repository and the composite
// listing query that assembles the full read model in one round trip.
package exhibitions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/internal/tags"
	"github.com/galereya/backend/pkg/apperr"
)

// Repository handles exhibition persistence.
type Repository struct {
	pool *pgxpool.Pool
	tags *tags.Repository
}

// NewRepository creates an exhibitions repository.
func NewRepository(pool *pgxpool.Pool, tagsRepo *tags.Repository) *Repository {
	return &Repository{pool: pool, tags: tagsRepo}
}

// CreateExhibition is the input for creating an exhibition with its initial
// participants and tags.
type CreateExhibition struct {
	Title          string           `json:"title" binding:"required"`
	Description    *string          `json:"description"`
	CoverImageKey  string           `json:"cover_image_key" binding:"required"`
	CoverType      models.CoverType `json:"cover_type"`
	Settings       json.RawMessage  `json:"settings"`
	OrganizationID *uuid.UUID       `json:"organization_id"`
	Participants   []string         `json:"participants"`
	Tags           []string         `json:"tags"`
}

// Create inserts an exhibition together with its participants and tags in one
// transaction. New exhibitions start in draft.
func (r *Repository) Create(ctx context.Context, in CreateExhibition) (*models.ExhibitionDetail, error) {
	if in.CoverType == "" {
		in.CoverType = models.CoverOutside
	}
	if in.CoverType != models.CoverInside && in.CoverType != models.CoverOutside {
		return nil, apperr.Validation("invalid cover_type")
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

	const insert = `INSERT INTO exhibitions (id, title, description, cover_image_key, cover_type, status, settings, organization_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	var id uuid.UUID
	err = tx.QueryRow(ctx, insert, in.Title, in.Description, in.CoverImageKey, in.CoverType,
		models.ExhibitionDraft, settings, in.OrganizationID).Scan(&id)
	if err != nil {
		return nil, err
	}

	if err := insertParticipants(ctx, tx, id, in.Participants); err != nil {
		return nil, err
	}

	txTags := tags.NewRepository(tx)
	resolved, err := txTags.ResolveAll(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	if err := txTags.ReplaceForExhibition(ctx, id, tagIDs(resolved)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetDetail(ctx, id, nil)
}

// UpdateExhibition is a partial exhibition update. Nil slices leave the
// corresponding collections untouched; empty slices clear them.
type UpdateExhibition struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	CoverImageKey  *string           `json:"cover_image_key"`
	CoverType      *models.CoverType `json:"cover_type"`
	Settings       json.RawMessage   `json:"settings"`
	OrganizationID *uuid.UUID        `json:"organization_id"`
	Participants   *[]string         `json:"participants"`
	Tags           *[]string         `json:"tags"`
}

// Update applies a partial patch, replacing participants and tags when the
// patch includes them, all in one transaction.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateExhibition) (*models.ExhibitionDetail, error) {
	if patch.CoverType != nil && *patch.CoverType != models.CoverInside && *patch.CoverType != models.CoverOutside {
		return nil, apperr.Validation("invalid cover_type")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sets := []string{"updated_at = NOW()"}
	args := make([]any, 0, 7)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.CoverImageKey != nil {
		add("cover_image_key", *patch.CoverImageKey)
	}
	if patch.CoverType != nil {
		add("cover_type", *patch.CoverType)
	}
	if len(patch.Settings) > 0 {
		add("settings", patch.Settings)
	}
	if patch.OrganizationID != nil {
		add("organization_id", *patch.OrganizationID)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE exhibitions SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := tx.Exec(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("exhibition")
	}

	if patch.Participants != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM exhibition_participants WHERE exhibition_id = $1`, id); err != nil {
			return nil, err
		}
		if err := insertParticipants(ctx, tx, id, *patch.Participants); err != nil {
			return nil, err
		}
	}
	if patch.Tags != nil {
		txTags := tags.NewRepository(tx)
		resolved, err := txTags.ResolveAll(ctx, *patch.Tags)
		if err != nil {
			return nil, err
		}
		if err := txTags.ReplaceForExhibition(ctx, id, tagIDs(resolved)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetDetail(ctx, id, nil)
}

// Delete removes an exhibition. Dependent rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exhibitions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("exhibition")
	}
	return nil
}

// GetBase returns the bare exhibition row without aggregates.
func (r *Repository) GetBase(ctx context.Context, id uuid.UUID) (*models.Exhibition, error) {
	const q = `SELECT id, title, description, cover_image_key, cover_type, status, rating,
			settings, organization_id, created_at, updated_at
		FROM exhibitions WHERE id = $1`
	var e models.Exhibition
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Title, &e.Description, &e.CoverImageKey,
		&e.CoverType, &e.Status, &e.Rating, &e.Settings, &e.OrganizationID, &e.CreatedAt, &e.UpdatedAt)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("exhibition")
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// AttachExhibit links an exhibit to an exhibition.
func (r *Repository) AttachExhibit(ctx context.Context, exhibitionID, exhibitID uuid.UUID) error {
	const q = `INSERT INTO exhibitions_exhibits (exhibition_id, exhibit_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, q, exhibitionID, exhibitID)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("exhibit is already attached to this exhibition")
	}
	if apperr.IsForeignKeyViolation(err) {
		return apperr.NotFound("exhibition or exhibit")
	}
	return err
}

func insertParticipants(ctx context.Context, tx pgx.Tx, exhibitionID uuid.UUID, names []string) error {
	const q = `INSERT INTO exhibition_participants (id, exhibition_id, name)
		VALUES (gen_random_uuid(), $1, $2)`
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := tx.Exec(ctx, q, exhibitionID, name); err != nil {
			return err
		}
	}
	return nil
}

func tagIDs(list []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(list))
	for i, t := range list {
		ids[i] = t.ID
	}
	return ids
}
