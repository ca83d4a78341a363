package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserService is a mock type for shared.Service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*shared.User), args.Get(1).(*shared.TokenResponse), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*shared.User), args.Get(1).(*shared.TokenResponse), args.Error(2)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, req shared.UpdateProfileRequest) (*shared.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile, intendedRole string) (*shared.User, bool, error) {
	args := m.Called(ctx, profile, intendedRole)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*shared.User), args.Bool(1), args.Error(2)
}

// unusedOAuthService satisfies the OAuthService dependency for routes the
// test never hits.
type unusedOAuthService struct{}

func (unusedOAuthService) GetGoogleLoginURL(_ *gin.Context, _ string) (string, error) {
	panic("not expected in this test")
}

func (unusedOAuthService) HandleGoogleCallback(_ *gin.Context, _, _ string) (*shared.User, *shared.TokenResponse, bool, error) {
	panic("not expected in this test")
}

func setupAuthHandlerRouter(t *testing.T, userService shared.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(
		&config.Config{},
		userService,
		newTestTokenService(t, "test-secret-key-32-bytes-long!!!", time.Hour),
		unusedOAuthService{},
		zap.NewNop(),
	)
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, func(c *gin.Context) { c.Next() })
	return router
}

func TestRegisterEndpoint_Success(t *testing.T) {
	userID := uuid.New()
	contact := "0911223344"
	mockService := new(MockUserService)
	mockService.On("Register", mock.Anything, mock.MatchedBy(func(req shared.CreateUserRequest) bool {
		return req.Email == "alice@example.com" && req.Role == common.RoleFarmer
	})).Return(
		&shared.User{
			ID:      userID,
			Name:    "alice",
			Email:   "alice@example.com",
			Role:    common.RoleFarmer,
			Contact: &contact,
		},
		&shared.TokenResponse{
			AccessToken: "issued-access-token",
			TokenType:   "Bearer",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		nil,
	)
	router := setupAuthHandlerRouter(t, mockService)

	body := `{"username":"alice","email":"alice@example.com","password":"password123","user_type":"farmer","contact":"0911223344"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			User struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
				UserType string `json:"user_type"`
			} `json:"user"`
			Token struct {
				AccessToken string `json:"access_token"`
				TokenType   string `json:"token_type"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, userID.String(), envelope.Data.User.ID)
	assert.Equal(t, "alice", envelope.Data.User.Username)
	assert.Equal(t, common.RoleFarmer, envelope.Data.User.UserType)
	assert.Equal(t, "issued-access-token", envelope.Data.Token.AccessToken)
	assert.Equal(t, "Bearer", envelope.Data.Token.TokenType)
	mockService.AssertExpectations(t)
}

func TestRegisterEndpoint_ValidationError(t *testing.T) {
	mockService := new(MockUserService)
	router := setupAuthHandlerRouter(t, mockService)

	body := `{"username":"alice","email":"not-an-email","user_type":"farmer","contact":"0911223344"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("Register", mock.Anything, mock.Anything).
		Return(nil, nil, common.NewConflictError("email", "Email address already registered."))
	router := setupAuthHandlerRouter(t, mockService)

	body := `{"username":"alice","email":"alice@example.com","password":"password123","user_type":"farmer","contact":"0911223344"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CONFLICT"`)
}
