// Package auth issues and validates JWTs for users and organizations.
package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/response"
	"github.com/galereya/backend/pkg/utils"
)

// UserStore resolves user credentials.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// OrgStore resolves organization credentials.
type OrgStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Organization, error)
}

// Handler handles login endpoints.
type Handler struct {
	users  UserStore
	orgs   OrgStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(usersStore UserStore, orgsStore OrgStore, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{users: usersStore, orgs: orgsStore, jwt: jwt, logger: logger}
}

// LoginRequest is the body for both login endpoints.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /auth/login for user accounts.
func (h *Handler) Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}
	u, err := h.users.GetByEmail(c.Request.Context(), body.Email)
	if err != nil || !utils.CheckPassword(body.Password, u.PasswordHash) {
		// Same answer for unknown email and wrong password.
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if u.Status == models.UserBlocked {
		response.Forbidden(c, "account is blocked")
		return
	}
	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	h.logger.Info("user logged in", zap.String("user_id", u.ID.String()))
	response.OK(c, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// OrgAccessToken handles POST /auth/org/access-token for organization
// credentials. The issued token carries the organization role.
func (h *Handler) OrgAccessToken(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}
	org, err := h.orgs.GetByEmail(c.Request.Context(), body.Email)
	if err != nil || !utils.CheckPassword(body.Password, org.PasswordHash) {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	token, err := h.jwt.Generate(org.ID, org.Email, models.RoleOrganization)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	h.logger.Info("organization logged in", zap.String("organization_id", org.ID.String()))
	response.OK(c, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
