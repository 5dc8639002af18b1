package moderation

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/galereya/backend/internal/middleware"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
)

// Handler handles moderation HTTP endpoints under /admin.
type Handler struct {
	service *Service
	audit   *AuditRepository
}

// NewHandler creates a moderation handler.
func NewHandler(service *Service, audit *AuditRepository) *Handler {
	return &Handler{service: service, audit: audit}
}

// StatusRequest is the body for moderation status changes.
type StatusRequest struct {
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment"`
}

// UpdateExhibitionStatus handles PATCH /admin/exhibitions/:id/status.
func (h *Handler) UpdateExhibitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	var body StatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	adminID := middleware.SubjectID(c)
	d, err := h.service.TransitionExhibition(c.Request.Context(), id,
		models.ExhibitionStatus(body.Status), body.Comment, adminID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, d)
}

// UpdateOrganizationStatus handles PATCH /admin/organizations/:id/status.
func (h *Handler) UpdateOrganizationStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var body StatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status is required")
		return
	}
	adminID := middleware.SubjectID(c)
	o, err := h.service.TransitionOrganization(c.Request.Context(), id,
		models.OrgStatus(body.Status), body.Comment, adminID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, o)
}

// ListExhibitionComments handles GET /admin/exhibitions/:id/comments.
func (h *Handler) ListExhibitionComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	list, err := h.audit.ListExhibitionComments(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load comments")
		return
	}
	response.OK(c, list)
}

// ListOrganizationComments handles GET /admin/organizations/:id/comments.
func (h *Handler) ListOrganizationComments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	list, err := h.audit.ListOrganizationComments(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load comments")
		return
	}
	response.OK(c, list)
}
