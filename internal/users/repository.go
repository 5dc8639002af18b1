package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/database"
)

const userColumns = `id, email, name, surname, patronymic, profile_image_key, about_me, role, status, password_hash, created_at`

// Repository handles user persistence.
type Repository struct {
	db database.DB
}

// NewRepository creates a users repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Surname, &u.Patronymic,
		&u.ProfileImageKey, &u.AboutMe, &u.Role, &u.Status, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Email uniqueness is enforced by the database.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (id, email, name, surname, patronymic, role, status, password_hash)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, q, strings.ToLower(u.Email), u.Name, u.Surname, u.Patronymic,
		u.Role, u.Status, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("user with this email already exists")
	}
	return err
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, id))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	return u, err
}

// GetByEmail returns a user by email (lowercased).
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, strings.ToLower(email)))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	return u, err
}

// UpdateProfile is a partial profile update. Only non-nil fields change.
type UpdateProfile struct {
	Name            *string `json:"name"`
	Surname         *string `json:"surname"`
	Patronymic      *string `json:"patronymic"`
	ProfileImageKey *string `json:"profile_image_key"`
	AboutMe         *string `json:"about_me"`
}

// Update applies a partial profile patch and returns the updated user.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch UpdateProfile) (*models.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Surname != nil {
		add("surname", *patch.Surname)
	}
	if patch.Patronymic != nil {
		add("patronymic", *patch.Patronymic)
	}
	if patch.ProfileImageKey != nil {
		add("profile_image_key", *patch.ProfileImageKey)
	}
	if patch.AboutMe != nil {
		add("about_me", *patch.AboutMe)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)
	u, err := scanUser(r.db.QueryRow(ctx, q, args...))
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	return u, err
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// SetStatus sets a user's account status (admin block/unblock).
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// Delete removes a user account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

// List returns a page of users ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context, skip, limit int) ([]models.UserPublic, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id ASC OFFSET $1 LIMIT $2`
	rows, err := r.db.Query(ctx, q, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u.Public())
	}
	return list, rows.Err()
}
