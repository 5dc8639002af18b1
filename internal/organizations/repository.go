package organizations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

const orgColumns = `id, name, email, contact_info, description, logo_key, status, password_hash, created_at`

// Repository handles organization and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanOrg(row interface{ Scan(dest ...any) error }) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Email, &o.ContactInfo, &o.Description,
		&o.LogoKey, &o.Status, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an organization and its founding membership in one
// transaction. The creating user becomes the first active member.
func (r *Repository) Create(ctx context.Context, org *models.Organization, founderID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insertOrg = `INSERT INTO organizations (id, name, email, contact_info, description, logo_key, status, password_hash)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err = tx.QueryRow(ctx, insertOrg, org.Name, strings.ToLower(org.Email),
		org.ContactInfo, org.Description, org.LogoKey, org.Status, org.PasswordHash).
		Scan(&org.ID, &org.CreatedAt)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("organization with this name or email already exists")
	}
	if err != nil {
		return err
	}

	const insertMember = `INSERT INTO users_organizations (organization_id, user_id, status)
		VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insertMember, org.ID, founderID, models.MemberActive); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID returns an organization by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	o, err := scanOrg(r.pool.QueryRow(ctx, q, id))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("organization")
	}
	return o, err
}

// GetByEmail returns an organization by its login email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations WHERE email = $1`
	o, err := scanOrg(r.pool.QueryRow(ctx, q, strings.ToLower(email)))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("organization")
	}
	return o, err
}

// UpdateProfile is a partial organization profile update.
type UpdateProfile struct {
	Name        *string `json:"name"`
	ContactInfo *string `json:"contact_info"`
	Description *string `json:"description"`
	LogoKey     *string `json:"logo_key"`
}

// Update applies a partial profile patch and returns the updated organization.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateProfile) (*models.Organization, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.ContactInfo != nil {
		add("contact_info", *patch.ContactInfo)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.LogoKey != nil {
		add("logo_key", *patch.LogoKey)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE organizations SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), orgColumns)
	o, err := scanOrg(r.pool.QueryRow(ctx, q, args...))
	if apperr.IsUniqueViolation(err) {
		return nil, apperr.Conflict("organization with this name already exists")
	}
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("organization")
	}
	return o, err
}

// ListFilter narrows organization listings.
type ListFilter struct {
	Status     *models.OrgStatus
	NamePrefix string
	Skip       int
	Limit      int
}

// List returns a page of organizations plus the unpaginated total. NamePrefix
// matches case-sensitively against the start of the name.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Organization, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.NamePrefix != "" {
		args = append(args, escapeLike(f.NamePrefix)+"%")
		where = append(where, fmt.Sprintf("name LIKE $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`+cond, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Skip, f.Limit)
	q := fmt.Sprintf(`SELECT %s FROM organizations%s ORDER BY created_at DESC, id ASC OFFSET $%d LIMIT $%d`,
		orgColumns, cond, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []models.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *o)
	}
	return list, count, rows.Err()
}

// Delete removes an organization.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("organization")
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so a prefix query matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
