package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("exhibition")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("nope")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("no token")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("cause"))))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("list exhibitions: %w", Validation("unsupported sort field"))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestIllegalTransitionMessage(t *testing.T) {
	err := IllegalTransition("draft", "published")
	assert.Equal(t, KindIllegalTransition, err.Kind)
	assert.Contains(t, err.Message, `"draft"`)
	assert.Contains(t, err.Message, `"published"`)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate key value")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("other")))
	assert.False(t, IsNoRows(nil))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal("wrapped", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "wrapped")
	assert.Contains(t, err.Error(), "cause")
}
