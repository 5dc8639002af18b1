package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/galereya/backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(string)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SubjectID returns the authenticated principal's ID from context, or
// uuid.Nil when the request is anonymous.
func SubjectID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ContextSubjectID)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// ViewerID returns a pointer to the principal's ID, or nil for anonymous
// requests. Used by the exhibition query engine's like-flag pass.
func ViewerID(c *gin.Context) *uuid.UUID {
	id := SubjectID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}
