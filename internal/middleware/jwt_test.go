package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-sched/admin-api/internal/models"
	appErrors "github.com/campus-sched/admin-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func protectedRouter(v TokenValidator, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWT(v)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRoles(roles...))
	}
	group := r.Group("/", handlers...)
	group.GET("/protected", func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	r := protectedRouter(&validatorStub{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	r := protectedRouter(&validatorStub{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "token-without-scheme")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	r := protectedRouter(&validatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareStoresClaims(t *testing.T) {
	r := protectedRouter(&validatorStub{claims: &models.JWTClaims{UserID: "u1", Username: "admin", Role: models.RoleAdmin}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	r := protectedRouter(&validatorStub{claims: &models.JWTClaims{UserID: "u2", Role: models.RoleStaff}}, models.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	r := protectedRouter(&validatorStub{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}}, models.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
