package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runRequireRole(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if role != "" {
		c.Set(ContextRole, role)
	}
	RequireRole(allowed...)(c)
	return w
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	for _, role := range []string{"user", "moderator", "admin"} {
		w := runRequireRole(t, role, "user", "moderator", "admin")
		assert.Equal(t, http.StatusOK, w.Code, "role %s", role)
	}
}

func TestRequireRoleRejectsOrganizationTokens(t *testing.T) {
	// The like routes allow only user-backed roles; an organization token has
	// no user row behind it.
	w := runRequireRole(t, "organization", "user", "moderator", "admin")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleRejectsMissingContext(t *testing.T) {
	w := runRequireRole(t, "", "admin")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
