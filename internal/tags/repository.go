// Package tags persists the shared tag vocabulary. Tag names are normalized
// to lowercase, so "Modern" and "modern" resolve to the same row.
package tags

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/database"
)

// Repository handles tag persistence.
type Repository struct {
	db database.DB
}

// NewRepository creates a tags repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// Normalize lowercases and trims a tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetOrCreate resolves a tag by normalized name, creating it when absent.
func (r *Repository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	const q = `INSERT INTO tags (id, name)
		VALUES (gen_random_uuid(), $1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`
	var t models.Tag
	err := r.db.QueryRow(ctx, q, Normalize(name)).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ResolveAll resolves a list of raw names to tag rows, normalizing and
// deduplicating first. Order of first appearance is kept.
func (r *Repository) ResolveAll(ctx context.Context, names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]models.Tag, 0, len(names))
	for _, raw := range names {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		t, err := r.GetOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// ReplaceForExhibition swaps an exhibition's tag set for the given tag ids.
// Callers run it inside the exhibition update transaction.
func (r *Repository) ReplaceForExhibition(ctx context.Context, exhibitionID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM exhibition_tags WHERE exhibition_id = $1`, exhibitionID); err != nil {
		return err
	}
	const q = `INSERT INTO exhibition_tags (exhibition_id, tag_id) VALUES ($1, $2)`
	for _, tagID := range tagIDs {
		if _, err := r.db.Exec(ctx, q, exhibitionID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// ListForExhibition returns an exhibition's tags ordered by name.
func (r *Repository) ListForExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Tag, error) {
	const q = `SELECT t.id, t.name, t.created_at
		FROM tags t
		INNER JOIN exhibition_tags et ON et.tag_id = t.id
		WHERE et.exhibition_id = $1
		ORDER BY t.name`
	rows, err := r.db.Query(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
