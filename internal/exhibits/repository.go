package exhibits

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/database"
)

const exhibitColumns = `id, organization_id, title, author, description, exhibit_type,
	image_key, date_template, start_year, end_year, created_at, updated_at`

// Repository handles exhibit persistence.
type Repository struct {
	db database.DB
}

// NewRepository creates an exhibits repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

func scanExhibit(row interface{ Scan(dest ...any) error }) (*models.Exhibit, error) {
	var e models.Exhibit
	err := row.Scan(&e.ID, &e.OrganizationID, &e.Title, &e.Author, &e.Description,
		&e.ExhibitType, &e.ImageKey, &e.DateTemplate, &e.StartYear, &e.EndYear,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an exhibit.
func (r *Repository) Create(ctx context.Context, e *models.Exhibit) error {
	const q = `INSERT INTO exhibits (id, organization_id, title, author, description, exhibit_type, image_key, date_template, start_year, end_year)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, q, e.OrganizationID, e.Title, e.Author, e.Description,
		e.ExhibitType, e.ImageKey, e.DateTemplate, e.StartYear, e.EndYear).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if apperr.IsForeignKeyViolation(err) {
		return apperr.NotFound("organization")
	}
	return err
}

// GetByID returns an exhibit by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Exhibit, error) {
	q := `SELECT ` + exhibitColumns + ` FROM exhibits WHERE id = $1`
	e, err := scanExhibit(r.db.QueryRow(ctx, q, id))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("exhibit")
	}
	return e, err
}

// UpdateExhibit is a partial exhibit update.
type UpdateExhibit struct {
	Title        *string              `json:"title"`
	Author       *string              `json:"author"`
	Description  *string              `json:"description"`
	ExhibitType  *models.ExhibitType  `json:"exhibit_type"`
	ImageKey     *string              `json:"image_key"`
	DateTemplate *models.DateTemplate `json:"date_template"`
	StartYear    *int                 `json:"start_year"`
	EndYear      *int                 `json:"end_year"`
}

// Update applies a partial patch and returns the updated exhibit.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateExhibit) (*models.Exhibit, error) {
	sets := []string{"updated_at = NOW()"}
	args := make([]any, 0, 9)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ExhibitType != nil {
		add("exhibit_type", *patch.ExhibitType)
	}
	if patch.ImageKey != nil {
		add("image_key", *patch.ImageKey)
	}
	if patch.DateTemplate != nil {
		add("date_template", *patch.DateTemplate)
	}
	if patch.StartYear != nil {
		add("start_year", *patch.StartYear)
	}
	if patch.EndYear != nil {
		add("end_year", *patch.EndYear)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE exhibits SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), exhibitColumns)
	e, err := scanExhibit(r.db.QueryRow(ctx, q, args...))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("exhibit")
	}
	return e, err
}

// Delete removes an exhibit.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exhibits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("exhibit")
	}
	return nil
}

// List returns a page of exhibits, optionally scoped to an organization,
// newest first, plus the unpaginated total.
func (r *Repository) List(ctx context.Context, orgID *uuid.UUID, skip, limit int) ([]models.Exhibit, int, error) {
	cond := ""
	args := make([]any, 0, 3)
	if orgID != nil {
		args = append(args, *orgID)
		cond = " WHERE organization_id = $1"
	}

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM exhibits`+cond, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	args = append(args, skip, limit)
	q := fmt.Sprintf(`SELECT %s FROM exhibits%s ORDER BY created_at DESC, id ASC OFFSET $%d LIMIT $%d`,
		exhibitColumns, cond, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []models.Exhibit
	for rows.Next() {
		e, err := scanExhibit(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
	}
	return list, count, rows.Err()
}

// ListForExhibition returns the exhibits attached to an exhibition.
func (r *Repository) ListForExhibition(ctx context.Context, exhibitionID uuid.UUID) ([]models.Exhibit, error) {
	const q = `SELECT e.id, e.organization_id, e.title, e.author, e.description, e.exhibit_type,
			e.image_key, e.date_template, e.start_year, e.end_year, e.created_at, e.updated_at
		FROM exhibits e
		INNER JOIN exhibitions_exhibits ee ON ee.exhibit_id = e.id
		WHERE ee.exhibition_id = $1
		ORDER BY e.created_at ASC`
	rows, err := r.db.Query(ctx, q, exhibitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Exhibit
	for rows.Next() {
		e, err := scanExhibit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}
