package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/database"
)

// AuditRepository persists moderation comments and admin actions. Both tables
// are append-only. Construct it over a pgx.Tx to write inside a transaction.
type AuditRepository struct {
	db database.DB
}

// NewAuditRepository creates an audit repository.
func NewAuditRepository(db database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AddExhibitionComment appends a comment to an exhibition's moderation trail.
func (r *AuditRepository) AddExhibitionComment(ctx context.Context, exhibitionID, authorID uuid.UUID, text string) (*models.ModerationComment, error) {
	const q = `INSERT INTO exhibition_moderation_comments (id, entity_id, author_id, text)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	c := models.ModerationComment{
		Entity:   models.ModerationExhibition,
		EntityID: exhibitionID,
		AuthorID: &authorID,
		Text:     text,
	}
	if err := r.db.QueryRow(ctx, q, exhibitionID, authorID, text).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddOrganizationComment appends a comment to an organization's moderation trail.
func (r *AuditRepository) AddOrganizationComment(ctx context.Context, orgID, authorID uuid.UUID, text string) (*models.ModerationComment, error) {
	const q = `INSERT INTO organization_moderation_comments (id, entity_id, author_id, text)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	c := models.ModerationComment{
		Entity:   models.ModerationOrganization,
		EntityID: orgID,
		AuthorID: &authorID,
		Text:     text,
	}
	if err := r.db.QueryRow(ctx, q, orgID, authorID, text).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListExhibitionComments returns an exhibition's moderation trail, oldest first.
func (r *AuditRepository) ListExhibitionComments(ctx context.Context, exhibitionID uuid.UUID) ([]models.ModerationComment, error) {
	const q = `SELECT id, entity_id, author_id, text, created_at
		FROM exhibition_moderation_comments
		WHERE entity_id = $1
		ORDER BY created_at ASC`
	return r.listComments(ctx, q, exhibitionID, models.ModerationExhibition)
}

// ListOrganizationComments returns an organization's moderation trail, oldest first.
func (r *AuditRepository) ListOrganizationComments(ctx context.Context, orgID uuid.UUID) ([]models.ModerationComment, error) {
	const q = `SELECT id, entity_id, author_id, text, created_at
		FROM organization_moderation_comments
		WHERE entity_id = $1
		ORDER BY created_at ASC`
	return r.listComments(ctx, q, orgID, models.ModerationOrganization)
}

func (r *AuditRepository) listComments(ctx context.Context, q string, entityID uuid.UUID, entity models.ModerationEntity) ([]models.ModerationComment, error) {
	rows, err := r.db.Query(ctx, q, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ModerationComment
	for rows.Next() {
		c := models.ModerationComment{Entity: entity}
		if err := rows.Scan(&c.ID, &c.EntityID, &c.AuthorID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// RecordAction appends an admin action to the audit log.
func (r *AuditRepository) RecordAction(ctx context.Context, a *models.AdminAction) error {
	const q = `INSERT INTO admin_actions (id, action_type, admin_id, target_user_id, target_org_id, target_exhibition_id)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, a.ActionType, a.AdminID,
		a.TargetUserID, a.TargetOrgID, a.TargetExhibitionID).Scan(&a.ID, &a.CreatedAt)
}

// RecordUserAction is a convenience wrapper for user block/unblock audit rows.
func (r *AuditRepository) RecordUserAction(ctx context.Context, actionType models.AdminActionType, adminID, targetUserID uuid.UUID) error {
	a := models.AdminAction{
		ActionType:   actionType,
		AdminID:      &adminID,
		TargetUserID: &targetUserID,
	}
	return r.RecordAction(ctx, &a)
}
