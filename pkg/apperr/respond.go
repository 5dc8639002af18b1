package apperr

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/galereya/backend/pkg/response"
)

// Respond translates an application error to the transport response. This is
// the only place error kinds map to HTTP status codes.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		response.Internal(c, "unexpected error")
		return
	}
	switch e.Kind {
	case KindNotFound:
		response.NotFound(c, e.Message)
	case KindConflict:
		response.Conflict(c, e.Message)
	case KindValidation, KindIllegalTransition:
		response.BadRequest(c, e.Message)
	case KindForbidden:
		response.Forbidden(c, e.Message)
	case KindUnauthorized:
		response.Unauthorized(c, e.Message)
	default:
		response.Internal(c, e.Message)
	}
}
