// File: internal/auth/handler.go
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"
	"farmlink_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	cfg          *config.Config
	userService  shared.Service
	tokenService shared.TokenService
	oauthService OAuthService
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	cfg *config.Config,
	userService shared.Service,
	tokenService shared.TokenService,
	oauthService OAuthService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:          cfg,
		userService:  userService,
		tokenService: tokenService,
		oauthService: oauthService,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
// Registration, login and the OAuth round-trip are public; logout needs a
// valid token and therefore the auth middleware.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/google/url", h.googleLoginURL)
		authGroup.GET("/google/callback", h.googleCallback)
		authGroup.POST("/logout", authMW, h.logout)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Registration: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, tokenResponse, err := h.userService.Register(c.Request.Context(), shared.CreateUserRequest{
		Name:     req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.UserType,
		Contact:  req.Contact,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{"user": user.ToUserResponse(usr), "token": tokenResponse}
	common.RespondCreated(c, "User registered successfully.", response)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, tokenResponse, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{"user": user.ToUserResponse(usr), "token": tokenResponse}
	common.RespondOK(c, "Login successful.", response)
}

func (h *Handler) logout(c *gin.Context) {
	tokenString := common.GetTokenFromContext(c)
	if tokenString == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
		return
	}
	if err := h.tokenService.RevokeToken(c.Request.Context(), tokenString); err != nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
		return
	}
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) googleLoginURL(c *gin.Context) {
	intendedRole := c.DefaultQuery("user_type", common.RoleFarmer)
	authURL, err := h.oauthService.GetGoogleLoginURL(c, intendedRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Google login URL generated.", gin.H{"auth_url": authURL})
}

func (h *Handler) googleCallback(c *gin.Context) {
	if errorParam := c.Query("error"); errorParam != "" {
		errorDesc := c.Query("error_description")
		h.logger.Warn("Google OAuth callback error",
			zap.String("error", errorParam), zap.String("description", errorDesc))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Google login failed: "+errorDesc))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.logger.Warn("Google callback missing code or state")
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Missing authorization code or state from Google."))
		return
	}

	appUser, tokenResponse, wasCreated, err := h.oauthService.HandleGoogleCallback(c, code, state)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	// Browser-initiated flows land back on the frontend with the token in the
	// fragmentless query, matching what the web client expects. API clients
	// get JSON when no redirect base is configured.
	if h.cfg.OAuthSuccessRedirect != "" {
		q := url.Values{}
		q.Set("token", tokenResponse.AccessToken)
		q.Set("user_id", appUser.ID.String())
		q.Set("user_type", appUser.Role)
		q.Set("is_new_user", fmt.Sprintf("%t", wasCreated))
		c.Redirect(http.StatusFound, h.cfg.OAuthSuccessRedirect+"?"+q.Encode())
		return
	}

	response := gin.H{
		"user":        user.ToUserResponse(appUser),
		"token":       tokenResponse,
		"is_new_user": wasCreated,
	}
	common.RespondOK(c, "Google login processed successfully.", response)
}
