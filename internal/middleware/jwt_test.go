package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillswap-app/session-api/internal/models"
	"github.com/skillswap-app/session-api/internal/service"
	"github.com/skillswap-app/session-api/pkg/config"
)

const testSecret = "middleware-test-secret"

func newAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, zap.NewNop(), config.JWTConfig{
		Secret:     testSecret,
		Expiration: time.Hour,
		Issuer:     "test",
	})
}

func signToken(t *testing.T, role models.UserRole, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runProtected(t *testing.T, handlers []gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/protected", chain...)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMissingHeader(t *testing.T) {
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService())}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService())}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	token := signToken(t, models.RoleMember, -time.Minute)
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService())}, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTValidToken(t *testing.T) {
	token := signToken(t, models.RoleMember, time.Hour)
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService())}, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesBlocksMember(t *testing.T) {
	token := signToken(t, models.RoleMember, time.Hour)
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService()), RequireRoles(models.RoleAdmin)}, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	token := signToken(t, models.RoleAdmin, time.Hour)
	w := runProtected(t, []gin.HandlerFunc{JWT(newAuthService()), RequireRoles(models.RoleAdmin)}, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
