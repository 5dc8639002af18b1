package exhibitions

import (
	"context"

	"github.com/google/uuid"

	"github.com/galereya/backend/pkg/apperr"
)

// Like records a user's like. Liking twice conflicts; the first like stands.
func (r *Repository) Like(ctx context.Context, exhibitionID, userID uuid.UUID) error {
	const q = `INSERT INTO user_exhibition_likes (exhibition_id, user_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, q, exhibitionID, userID)
	if apperr.IsUniqueViolation(err) {
		return apperr.Conflict("exhibition already liked")
	}
	if apperr.IsForeignKeyViolation(err) {
		return apperr.NotFound("exhibition")
	}
	return err
}

// Unlike removes a user's like. Unliking something never liked is NotFound.
func (r *Repository) Unlike(ctx context.Context, exhibitionID, userID uuid.UUID) error {
	const q = `DELETE FROM user_exhibition_likes WHERE exhibition_id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, exhibitionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("like")
	}
	return nil
}
