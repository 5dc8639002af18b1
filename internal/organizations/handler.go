package organizations

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galereya/backend/internal/exhibitions"
	"github.com/galereya/backend/internal/middleware"
	"github.com/galereya/backend/internal/models"
	"github.com/galereya/backend/pkg/apperr"
	"github.com/galereya/backend/pkg/response"
	"github.com/galereya/backend/pkg/utils"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo        *Repository
	exhibitions *exhibitions.Repository
	logger      *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, exhibitionsRepo *exhibitions.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, exhibitions: exhibitionsRepo, logger: logger}
}

// CreateRequest is the body for POST /organizations.
type CreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required"`
	ContactInfo *string `json:"contact_info"`
	Description *string `json:"description"`
	LogoKey     *string `json:"logo_key"`
}

// Create handles POST /organizations. The creating user becomes the founding
// member; the organization starts in draft.
func (h *Handler) Create(c *gin.Context) {
	userID := middleware.SubjectID(c)
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "name, email and password are required")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Name) > 255 {
		response.BadRequest(c, "name must be 1–255 characters")
		return
	}
	if len(body.Password) < 8 {
		response.BadRequest(c, "password must be at least 8 characters")
		return
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	org := &models.Organization{
		Name:         body.Name,
		Email:        strings.ToLower(strings.TrimSpace(body.Email)),
		ContactInfo:  body.ContactInfo,
		Description:  body.Description,
		LogoKey:      body.LogoKey,
		Status:       models.OrgDraft,
		PasswordHash: hash,
	}
	if err := h.repo.Create(c.Request.Context(), org, userID); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("founder_id", userID.String()))
	response.Created(c, org)
}

// List handles GET /organizations.
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{NamePrefix: c.Query("q")}
	f.Skip, f.Limit = pagination(c)
	list, count, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, gin.H{"data": list, "count": count, "skip": f.Skip, "limit": f.Limit})
}

// AdminList handles GET /admin/organizations with an optional status filter.
func (h *Handler) AdminList(c *gin.Context) {
	f := ListFilter{NamePrefix: c.Query("q")}
	f.Skip, f.Limit = pagination(c)
	if s := c.Query("status"); s != "" {
		status := models.OrgStatus(s)
		if !status.Valid() {
			response.BadRequest(c, "unknown organization status")
			return
		}
		f.Status = &status
	}
	list, count, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, gin.H{"data": list, "count": count, "skip": f.Skip, "limit": f.Limit})
}

// Profile handles GET /organizations/:id/profile: the organization plus a page
// of its published exhibitions.
func (h *Handler) Profile(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), orgID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	skip, limit := pagination(c)
	published := models.ExhibitionPublished
	page, err := h.exhibitions.List(c.Request.Context(), exhibitions.ListParams{
		OrganizationID: &orgID,
		Status:         &published,
		SortBy:         "created_at",
		SortDesc:       true,
		Skip:           skip,
		Limit:          limit,
		ViewerID:       middleware.ViewerID(c),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, gin.H{"organization": org, "exhibitions": page})
}

// UpdateProfile handles PUT /organizations/:id/profile. Allowed for admins,
// moderators, the organization's own token, and active members.
func (h *Handler) UpdateProfile(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if !h.canManage(c, orgID) {
		response.Forbidden(c, "not authorized for this organization")
		return
	}
	var patch UpdateProfile
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	org, err := h.repo.Update(c.Request.Context(), orgID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, org)
}

// AddMemberRequest is the body for POST /organizations/:id/members.
type AddMemberRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Position *string   `json:"position"`
}

// AddMember handles POST /organizations/:id/members.
func (h *Handler) AddMember(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if !h.canManage(c, orgID) {
		response.Forbidden(c, "not authorized for this organization")
		return
	}
	var body AddMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "user_id is required")
		return
	}
	m, err := h.repo.AddMember(c.Request.Context(), orgID, body.UserID, body.Position)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			apperr.Respond(c, apperr.NotFound("organization or user"))
			return
		}
		apperr.Respond(c, err)
		return
	}
	response.Created(c, m)
}

// UpdateMember handles PATCH /organizations/:id/members/:userId.
func (h *Handler) UpdateMember(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if !h.canManage(c, orgID) {
		response.Forbidden(c, "not authorized for this organization")
		return
	}
	var patch MembershipPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	m, err := h.repo.UpdateMember(c.Request.Context(), orgID, userID, patch)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.OK(c, m)
}

// ListMembers handles GET /organizations/:id/members.
func (h *Handler) ListMembers(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	if !h.canManage(c, orgID) {
		response.Forbidden(c, "not authorized for this organization")
		return
	}
	members, err := h.repo.ListMembers(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load members")
		return
	}
	response.OK(c, members)
}

// canManage reports whether the current principal may manage the
// organization: platform staff, the organization's own token, or an active
// member.
func (h *Handler) canManage(c *gin.Context, orgID uuid.UUID) bool {
	role, _ := c.Get(middleware.ContextRole)
	switch role {
	case string(models.RoleAdmin), string(models.RoleModerator):
		return true
	case string(models.RoleOrganization):
		return middleware.SubjectID(c) == orgID
	}
	ok, err := h.repo.IsActiveMember(c.Request.Context(), orgID, middleware.SubjectID(c))
	if err != nil {
		return false
	}
	return ok
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
