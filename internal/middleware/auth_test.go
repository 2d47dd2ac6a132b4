// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/benepisyo/benefits-backend/internal/models"
)

func performWithRole(t *testing.T, role string, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/guarded", func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	return w
}

func TestSuperAdminRequiredTurnsAwayPlainAdmins(t *testing.T) {
	require.Equal(t, http.StatusOK, performWithRole(t, string(models.AccountRoleSuperAdmin), SuperAdminRequired()).Code)
	require.Equal(t, http.StatusForbidden, performWithRole(t, string(models.AccountRoleAdmin), SuperAdminRequired()).Code)
	require.Equal(t, http.StatusForbidden, performWithRole(t, string(models.AccountRoleApplicant), SuperAdminRequired()).Code)
	require.Equal(t, http.StatusForbidden, performWithRole(t, "", SuperAdminRequired()).Code)
}

func TestAdminRequiredAdmitsBothAdminRoles(t *testing.T) {
	require.Equal(t, http.StatusOK, performWithRole(t, string(models.AccountRoleAdmin), AdminRequired()).Code)
	require.Equal(t, http.StatusOK, performWithRole(t, string(models.AccountRoleSuperAdmin), AdminRequired()).Code)
	require.Equal(t, http.StatusForbidden, performWithRole(t, string(models.AccountRoleApplicant), AdminRequired()).Code)
}
