package blocks

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
)

// Handler handles block HTTP endpoints nested under an exhibition.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a blocks handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func parseIDs(c *gin.Context) (exhibitionID, blockID uuid.UUID, ok bool) {
	exhibitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid exhibition id")
		return exhibitionID, blockID, false
	}
	if s := c.Param("blockId"); s != "" {
		blockID, err = uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid block id")
			return exhibitionID, blockID, false
		}
	}
	return exhibitionID, blockID, true
}

// Create handles POST /exhibitions/:id/blocks.
func (h *Handler) Create(c *gin.Context) {
	exhibitionID, _, ok := parseIDs(c)
	if !ok {
		return
	}
	var body CreateBlock
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "type is required")
		return
	}
	b, err := h.repo.Create(c.Request.Context(), exhibitionID, body)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("block created",
		zap.String("exhibition_id", exhibitionID.String()),
		zap.String("block_id", b.ID.String()))
	response.Created(c, b)
}

// Update handles PUT /exhibitions/:id/blocks/:blockId.
func (h *Handler) Update(c *gin.Context) {
	exhibitionID, blockID, ok := parseIDs(c)
	if !ok {
		return
	}
	var patch UpdateBlock
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.repo.Update(c.Request.Context(), exhibitionID, blockID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, b)
}

// Delete handles DELETE /exhibitions/:id/blocks/:blockId.
func (h *Handler) Delete(c *gin.Context) {
	exhibitionID, blockID, ok := parseIDs(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), exhibitionID, blockID); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.NoContent(c)
}
