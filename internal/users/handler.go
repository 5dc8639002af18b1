package users

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/middleware"
	"github.com/galereya/backend/internal/moderation"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
	"github.com/galereya/backend/pkg/utils"
)

const minPasswordLength = 8

// Handler handles user HTTP endpoints.
type Handler struct {
	repo   *Repository
	audit  *moderation.AuditRepository
	logger *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, audit *moderation.AuditRepository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, audit: audit, logger: logger}
}

// SignupRequest is the body for POST /users/signup.
type SignupRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Surname    string `json:"surname" binding:"required"`
	Patronymic string `json:"patronymic"`
}

// Signup handles POST /users/signup.
func (h *Handler) Signup(c *gin.Context) {
	var body SignupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "email, password, name and surname are required")
		return
	}
	if len(body.Password) < minPasswordLength {
		response.BadRequest(c, "password must be at least 8 characters")
		return
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	u := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(body.Email)),
		Name:         strings.TrimSpace(body.Name),
		Surname:      strings.TrimSpace(body.Surname),
		Patronymic:   strings.TrimSpace(body.Patronymic),
		Role:         models.RoleUser,
		Status:       models.UserActive,
		PasswordHash: hash,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("user registered", zap.String("user_id", u.ID.String()))
	response.Created(c, u.Public())
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.SubjectID(c)
	u, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, u.Public())
}

// UpdateMe handles PUT /users/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := middleware.SubjectID(c)
	var patch UpdateProfile
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	u, err := h.repo.Update(c.Request.Context(), userID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, u.Public())
}

// DeleteMe handles DELETE /users/me.
func (h *Handler) DeleteMe(c *gin.Context) {
	userID := middleware.SubjectID(c)
	if err := h.repo.Delete(c.Request.Context(), userID); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("user deleted account", zap.String("user_id", userID.String()))
	response.NoContent(c)
}

// ChangePasswordRequest is the body for PATCH /users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword handles PATCH /users/me/password.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := middleware.SubjectID(c)
	var body ChangePasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "current_password and new_password are required")
		return
	}
	u, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if !utils.CheckPassword(body.CurrentPassword, u.PasswordHash) {
		response.BadRequest(c, "current password is incorrect")
		return
	}
	if body.NewPassword == body.CurrentPassword {
		response.BadRequest(c, "new password must differ from the current one")
		return
	}
	if len(body.NewPassword) < minPasswordLength {
		response.BadRequest(c, "password must be at least 8 characters")
		return
	}
	hash, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), userID, hash); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}

// GetByID handles GET /users/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	u, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, u.Public())
}

// List handles GET /users (admin).
func (h *Handler) List(c *gin.Context) {
	skip, limit := pagination(c)
	list, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.Internal(c, "failed to load users")
		return
	}
	response.OK(c, list)
}

// Block handles PATCH /admin/users/:id/block.
func (h *Handler) Block(c *gin.Context) {
	h.setStatus(c, models.UserBlocked, models.ActionBlockUser)
}

// Unblock handles PATCH /admin/users/:id/unblock.
func (h *Handler) Unblock(c *gin.Context) {
	h.setStatus(c, models.UserActive, models.ActionUnblockUser)
}

func (h *Handler) setStatus(c *gin.Context, status models.UserStatus, actionType models.AdminActionType) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	adminID := middleware.SubjectID(c)
	ctx := c.Request.Context()
	if err := h.repo.SetStatus(ctx, targetID, status); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.audit.RecordUserAction(ctx, actionType, adminID, targetID); err != nil {
		h.logger.Error("failed to record admin action",
			zap.String("action", string(actionType)), zap.Error(err))
	}
	h.logger.Info("user status changed",
		zap.String("user_id", targetID.String()),
		zap.String("status", string(status)),
		zap.String("admin_id", adminID.String()))
	response.NoContent(c)
}

func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return skip, limit
}
