package organizations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

// AddMember creates an active membership. A membership row is permanent: once
// a user has ever belonged to the organization, active or left, adding them
// again conflicts.
func (r *Repository) AddMember(ctx context.Context, orgID, userID uuid.UUID, position *string) (*models.Membership, error) {
	const q = `INSERT INTO users_organizations (organization_id, user_id, status, position)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at, updated_at`
	m := models.Membership{
		OrganizationID: orgID,
		UserID:         userID,
		Status:         models.MemberActive,
		Position:       position,
	}
	err := r.pool.QueryRow(ctx, q, orgID, userID, models.MemberActive, position).
		Scan(&m.JoinedAt, &m.UpdatedAt)
	if apperr.IsUniqueViolation(err) {
		return nil, apperr.Conflict("user already has a membership in this organization")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MembershipPatch is a partial membership update.
type MembershipPatch struct {
	Status   *models.MembershipStatus `json:"status"`
	Position *string                  `json:"position"`
}

// UpdateMember applies a partial patch to a membership. When the patch moves
// status to left, left_at is stamped in the same statement.
func (r *Repository) UpdateMember(ctx context.Context, orgID, userID uuid.UUID, patch MembershipPatch) (*models.Membership, error) {
	if patch.Status != nil && *patch.Status != models.MemberActive && *patch.Status != models.MemberLeft {
		return nil, apperr.Validation("invalid membership status")
	}
	sets := []string{"updated_at = NOW()"}
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
		if *patch.Status == models.MemberLeft {
			sets = append(sets, "left_at = CASE WHEN status <> 'left' THEN NOW() ELSE left_at END")
		}
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	args = append(args, orgID, userID)
	q := fmt.Sprintf(`UPDATE users_organizations SET %s
		WHERE organization_id = $%d AND user_id = $%d
		RETURNING organization_id, user_id, status, position, joined_at, left_at, updated_at`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	var m models.Membership
	err := r.pool.QueryRow(ctx, q, args...).
		Scan(&m.OrganizationID, &m.UserID, &m.Status, &m.Position, &m.JoinedAt, &m.LeftAt, &m.UpdatedAt)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("membership")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMembership returns a single membership row.
func (r *Repository) GetMembership(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	const q = `SELECT organization_id, user_id, status, position, joined_at, left_at, updated_at
		FROM users_organizations
		WHERE organization_id = $1 AND user_id = $2`
	var m models.Membership
	err := r.pool.QueryRow(ctx, q, orgID, userID).
		Scan(&m.OrganizationID, &m.UserID, &m.Status, &m.Position, &m.JoinedAt, &m.LeftAt, &m.UpdatedAt)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("membership")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// IsActiveMember reports whether the user currently has an active membership.
func (r *Repository) IsActiveMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM users_organizations
		WHERE organization_id = $1 AND user_id = $2 AND status = 'active')`
	var ok bool
	if err := r.pool.QueryRow(ctx, q, orgID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ListMembers returns an organization's members with their user records,
// ordered by join time.
func (r *Repository) ListMembers(ctx context.Context, orgID uuid.UUID) ([]models.OrganizationMember, error) {
	const q = `SELECT u.id, u.email, u.name, u.surname, u.patronymic, u.profile_image_key,
			u.about_me, u.role, u.status, u.created_at,
			uo.organization_id, uo.user_id, uo.status, uo.position, uo.joined_at, uo.left_at, uo.updated_at
		FROM users_organizations uo
		INNER JOIN users u ON u.id = uo.user_id
		WHERE uo.organization_id = $1
		ORDER BY uo.joined_at ASC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.OrganizationMember
	for rows.Next() {
		var m models.OrganizationMember
		err := rows.Scan(&m.User.ID, &m.User.Email, &m.User.Name, &m.User.Surname, &m.User.Patronymic,
			&m.User.ProfileImageKey, &m.User.AboutMe, &m.User.Role, &m.User.Status, &m.User.CreatedAt,
			&m.Membership.OrganizationID, &m.Membership.UserID, &m.Membership.Status,
			&m.Membership.Position, &m.Membership.JoinedAt, &m.Membership.LeftAt, &m.Membership.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
