package exhibits

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
)

// Handler handles exhibit HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an exhibits handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest is the body for POST /exhibits.
type CreateRequest struct {
	OrganizationID uuid.UUID           `json:"organization_id" binding:"required"`
	Title          string              `json:"title" binding:"required"`
	Author         string              `json:"author" binding:"required"`
	Description    string              `json:"description"`
	ExhibitType    models.ExhibitType  `json:"exhibit_type"`
	ImageKey       string              `json:"image_key" binding:"required"`
	DateTemplate   models.DateTemplate `json:"date_template"`
	StartYear      *int                `json:"start_year"`
	EndYear        *int                `json:"end_year"`
}

// Create handles POST /exhibits.
func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "organization_id, title, author and image_key are required")
		return
	}
	if body.ExhibitType == "" {
		body.ExhibitType = models.ExhibitOther
	}
	if body.DateTemplate == "" {
		body.DateTemplate = models.DateYear
	}
	e := &models.Exhibit{
		OrganizationID: body.OrganizationID,
		Title:          body.Title,
		Author:         body.Author,
		Description:    body.Description,
		ExhibitType:    body.ExhibitType,
		ImageKey:       body.ImageKey,
		DateTemplate:   body.DateTemplate,
		StartYear:      body.StartYear,
		EndYear:        body.EndYear,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("exhibit created", zap.String("exhibit_id", e.ID.String()))
	response.Created(c, e)
}

// Get handles GET /exhibits/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibit id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, e)
}

// List handles GET /exhibits.
func (h *Handler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var orgID *uuid.UUID
	if s := c.Query("organization_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid organization_id")
			return
		}
		orgID = &id
	}
	list, count, err := h.repo.List(c.Request.Context(), orgID, skip, limit)
	if err != nil {
		response.Internal(c, "failed to load exhibits")
		return
	}
	response.OK(c, gin.H{"data": list, "count": count, "skip": skip, "limit": limit})
}

// ListForExhibition handles GET /exhibitions/:id/exhibits.
func (h *Handler) ListForExhibition(c *gin.Context) {
	exhibitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return
	}
	list, err := h.repo.ListForExhibition(c.Request.Context(), exhibitionID)
	if err != nil {
		response.Internal(c, "failed to load exhibits")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /exhibits/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibit id")
		return
	}
	var patch UpdateExhibit
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	e, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, e)
}

// Delete handles DELETE /exhibits/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibit id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}
