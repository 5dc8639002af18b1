package exhibitions

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/middleware"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
)

// Handler handles exhibition HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an exhibitions handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /exhibitions. Anonymous viewers get no like flags.
func (h *Handler) List(c *gin.Context) {
	p := ListParams{
		TitleQuery: c.Query("q"),
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		SortDesc:   c.DefaultQuery("sort_dir", "asc") == "desc",
		ViewerID:   middleware.ViewerID(c),
	}
	p.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	p.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if s := c.Query("organization_id"); s != "" {
		orgID, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid organization_id")
			return
		}
		p.OrganizationID = &orgID
	}
	if s := c.Query("status"); s != "" {
		status := models.ExhibitionStatus(s)
		if !status.Valid() {
			response.BadRequest(c, "unknown exhibition status")
			return
		}
		p.Status = &status
	}

	page, err := h.repo.List(c.Request.Context(), p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, page)
}

// Get handles GET /exhibitions/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	d, err := h.repo.GetDetail(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, d)
}

// Create handles POST /exhibitions.
func (h *Handler) Create(c *gin.Context) {
	var body CreateExhibition
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "title and cover_image_key are required")
		return
	}
	d, err := h.repo.Create(c.Request.Context(), body)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("exhibition created", zap.String("exhibition_id", d.ID.String()))
	response.Created(c, d)
}

// Update handles PUT /exhibitions/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	var patch UpdateExhibition
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	d, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, d)
}

// Delete handles DELETE /exhibitions/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("exhibition deleted", zap.String("exhibition_id", id.String()))
	response.NoContent(c)
}

// AttachExhibitRequest is the body for POST /exhibitions/:id/exhibits.
type AttachExhibitRequest struct {
	ExhibitID uuid.UUID `json:"exhibit_id" binding:"required"`
}

// AttachExhibit handles POST /exhibitions/:id/exhibits.
func (h *Handler) AttachExhibit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	var body AttachExhibitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "exhibit_id is required")
		return
	}
	if err := h.repo.AttachExhibit(c.Request.Context(), id, body.ExhibitID); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}

// Like handles POST /exhibitions/:id/like.
func (h *Handler) Like(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	userID := middleware.SubjectID(c)
	if err := h.repo.Like(c.Request.Context(), id, userID); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}

// Unlike handles POST /exhibitions/:id/unlike.
func (h *Handler) Unlike(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	userID := middleware.SubjectID(c)
	if err := h.repo.Unlike(c.Request.Context(), id, userID); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}
