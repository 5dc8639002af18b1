package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/galereya/backend/internal/auth"
	"github.com/galereya/backend/pkg/response"
)

const (
	// ContextSubjectID is the key for the authenticated principal's ID (user or organization).
	ContextSubjectID = "subject_id"
	// ContextRole is the key for the principal's role in gin context.
	ContextRole = "role"
	// ContextEmail is the key for the principal's email in gin context.
	ContextEmail = "email"
)

// JWT returns a middleware that validates the bearer token and sets principal
// claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextSubjectID, claims.SubjectID)
		c.Set(ContextRole, string(claims.Role))
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalJWT sets principal claims when a valid bearer token is present and
// lets anonymous requests through untouched. Public listing endpoints use it
// to resolve the viewer for per-item like flags.
func OptionalJWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		if claims, err := jwtService.Validate(parts[1]); err == nil {
			c.Set(ContextSubjectID, claims.SubjectID)
			c.Set(ContextRole, string(claims.Role))
			c.Set(ContextEmail, claims.Email)
		}
		c.Next()
	}
}
