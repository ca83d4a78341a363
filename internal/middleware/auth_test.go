package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubTokenService validates exactly one token string.
type stubTokenService struct {
	validToken string
	claims     *shared.Claims
}

func (s *stubTokenService) GenerateAccessToken(_ shared.UserDataForToken) (string, time.Time, error) {
	return s.validToken, time.Now().Add(time.Hour), nil
}

func (s *stubTokenService) ValidateToken(_ context.Context, tokenString string) (*shared.Claims, error) {
	if tokenString == s.validToken {
		return s.claims, nil
	}
	return nil, shared.ErrInvalidToken
}

func (s *stubTokenService) RevokeToken(_ context.Context, _ string) error {
	return nil
}

func setupAuthTestRouter(tokenService shared.TokenService, handlerCalled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokenService, zap.NewNop()), func(c *gin.Context) {
		*handlerCalled = true
		c.JSON(http.StatusOK, gin.H{
			"user_id": common.GetUserIDFromContext(c).String(),
			"role":    common.GetUserRoleFromContext(c),
		})
	})
	return router
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handlerCalled := false
	router := setupAuthTestRouter(&stubTokenService{}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerCalled, "handler must not run without credentials")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic sometoken"},
		{"too many parts", "Bearer a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			router := setupAuthTestRouter(&stubTokenService{}, &handlerCalled)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set(common.AuthorizationHeader, tt.header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, handlerCalled)
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handlerCalled := false
	router := setupAuthTestRouter(&stubTokenService{validToken: "good"}, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(common.AuthorizationHeader, "Bearer bad")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerCalled)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	svc := &stubTokenService{
		validToken: "good",
		claims: &shared.Claims{
			UserID: userID,
			Role:   common.RoleFarmer,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
	}
	handlerCalled := false
	router := setupAuthTestRouter(svc, &handlerCalled)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(common.AuthorizationHeader, "Bearer good")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), common.RoleFarmer)
}

// Expired and tampered tokens must produce byte-identical rejections.
func TestAuthMiddleware_UniformRejectionBody(t *testing.T) {
	handlerCalled := false
	router := setupAuthTestRouter(&stubTokenService{validToken: "good"}, &handlerCalled)

	bodies := make([]string, 0, 2)
	for _, token := range []string{"expired-token", "tampered-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		bodies = append(bodies, w.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestRoleAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/farmers-only",
		func(c *gin.Context) { c.Set(common.UserRoleKey, common.RoleBuyer) },
		RoleAuthMiddleware(common.RoleFarmer),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/farmers-only", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
