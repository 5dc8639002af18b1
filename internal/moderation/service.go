package moderation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/exhibitions"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
)

// Service applies moderation transitions. A transition is the status update,
// the moderator comment and the admin action committed as one transaction, or
// none of them.
type Service struct {
	pool        *pgxpool.Pool
	exhibitions *exhibitions.Repository
	logger      *zap.Logger
}

// NewService creates a moderation service.
func NewService(pool *pgxpool.Pool, exhibitionsRepo *exhibitions.Repository, logger *zap.Logger) *Service {
	return &Service{pool: pool, exhibitions: exhibitionsRepo, logger: logger}
}

// TransitionExhibition moves an exhibition to a new status. The change is
// checked against the state machine first; an omitted comment is stored as an
// empty string so the trail keeps one entry per transition.
func (s *Service) TransitionExhibition(ctx context.Context, id uuid.UUID, to models.ExhibitionStatus, comment *string, adminID uuid.UUID) (*models.ExhibitionDetail, error) {
	if !to.Valid() {
		return nil, apperr.Validation("unknown exhibition status")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var from models.ExhibitionStatus
	err = tx.QueryRow(ctx, `SELECT status FROM exhibitions WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("exhibition")
	}
	if err != nil {
		return nil, err
	}
	if err := CheckExhibitionTransition(from, to); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE exhibitions SET status = $1, updated_at = NOW() WHERE id = $2`, to, id); err != nil {
		return nil, err
	}

	text := ""
	if comment != nil {
		text = *comment
	}
	audit := NewAuditRepository(tx)
	if _, err := audit.AddExhibitionComment(ctx, id, adminID, text); err != nil {
		return nil, err
	}
	action := models.AdminAction{
		ActionType:         models.ActionUpdateExhibitionStatus,
		AdminID:            &adminID,
		TargetExhibitionID: &id,
	}
	if err := audit.RecordAction(ctx, &action); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("exhibition status changed",
		zap.String("exhibition_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("admin_id", adminID.String()))

	return s.exhibitions.GetDetail(ctx, id, nil)
}

// TransitionOrganization moves an organization to a new status with the same
// atomicity as exhibition transitions.
func (s *Service) TransitionOrganization(ctx context.Context, id uuid.UUID, to models.OrgStatus, comment *string, adminID uuid.UUID) (*models.Organization, error) {
	if !to.Valid() {
		return nil, apperr.Validation("unknown organization status")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var from models.OrgStatus
	err = tx.QueryRow(ctx, `SELECT status FROM organizations WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if apperr.IsNoRows(err) {
		return nil, apperr.NotFound("organization")
	}
	if err != nil {
		return nil, err
	}
	if err := CheckOrganizationTransition(from, to); err != nil {
		return nil, err
	}

	const update = `UPDATE organizations SET status = $1 WHERE id = $2
		RETURNING id, name, email, contact_info, description, logo_key, status, password_hash, created_at`
	var o models.Organization
	err = tx.QueryRow(ctx, update, to, id).Scan(&o.ID, &o.Name, &o.Email, &o.ContactInfo,
		&o.Description, &o.LogoKey, &o.Status, &o.PasswordHash, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	text := ""
	if comment != nil {
		text = *comment
	}
	audit := NewAuditRepository(tx)
	if _, err := audit.AddOrganizationComment(ctx, id, adminID, text); err != nil {
		return nil, err
	}
	action := models.AdminAction{
		ActionType:  models.ActionUpdateOrgStatus,
		AdminID:     &adminID,
		TargetOrgID: &id,
	}
	if err := audit.RecordAction(ctx, &action); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("organization status changed",
		zap.String("organization_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("admin_id", adminID.String()))

	return &o, nil
}
