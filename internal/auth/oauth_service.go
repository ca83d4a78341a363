// File: internal/auth/oauth_service.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ProviderGoogle is the provider tag stored on accounts created via Google.
const ProviderGoogle = "google"

// OAuthService defines the interface for the Google OAuth round-trip.
type OAuthService interface {
	GetGoogleLoginURL(c *gin.Context, intendedRole string) (string, error)
	HandleGoogleCallback(c *gin.Context, code, state string) (*shared.User, *shared.TokenResponse, bool, error)
}

type oauthService struct {
	cfg          *config.Config
	users        OAuthUserProvider
	tokenService shared.TokenService
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewOAuthService creates a new Google OAuth service. All outbound calls to
// the provider share one client with a bounded timeout so a slow provider can
// never hang a request indefinitely.
func NewOAuthService(
	cfg *config.Config,
	users OAuthUserProvider,
	tokenService shared.TokenService,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:          cfg,
		users:        users,
		tokenService: tokenService,
		httpClient:   &http.Client{Timeout: cfg.OAuthHTTPTimeout},
		logger:       logger.Named("OAuthService"),
	}
}

// GetGoogleLoginURL builds the provider authorization URL. Missing client
// credentials are a reported condition, not a crash.
func (s *oauthService) GetGoogleLoginURL(c *gin.Context, intendedRole string) (string, error) {
	if !s.cfg.GoogleOAuthConfigured() {
		s.logger.Warn("Google login requested but client credentials are not configured")
		return "", common.ErrServiceUnavailable.WithDetails("Google login is not configured.")
	}
	if !common.IsValidRole(intendedRole) {
		return "", common.ErrBadRequest.WithDetails("user_type must be 'farmer' or 'buyer'.")
	}

	nonce, err := generateAndSetOAuthNonce(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state nonce", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate Google login.")
	}

	googleCfg := getGoogleOAuthConfig(s.cfg)
	authURL := googleCfg.AuthCodeURL(encodeState(nonce, intendedRole), oauth2.AccessTypeOffline)
	s.logger.Info("Generated Google login URL", zap.String("intended_role", intendedRole))
	return authURL, nil
}

// HandleGoogleCallback processes the provider redirect: CSRF check, single
// code exchange, userinfo fetch, then account resolution. The boolean result
// reports whether a new account was created.
func (s *oauthService) HandleGoogleCallback(c *gin.Context, code, state string) (*shared.User, *shared.TokenResponse, bool, error) {
	if !s.cfg.GoogleOAuthConfigured() {
		return nil, nil, false, common.ErrServiceUnavailable.WithDetails("Google login is not configured.")
	}

	nonce, intendedRole, err := decodeState(state)
	if err != nil {
		s.logger.Warn("Malformed OAuth state on Google callback", zap.Error(err))
		return nil, nil, false, common.ErrBadRequest.WithDetails("Invalid OAuth state.")
	}

	storedNonce, err := getOAuthCookie(c, s.cfg, s.cfg.OAuthStateCookieName)
	if err != nil {
		s.logger.Warn("Missing OAuth state cookie on Google callback", zap.Error(err))
		return nil, nil, false, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if nonce != storedNonce {
		s.logger.Warn("Google OAuth state mismatch")
		return nil, nil, false, common.ErrBadRequest.WithDetails("OAuth state mismatch. Possible CSRF attack.")
	}

	// The role recovered from state is attacker-observable. It is validated
	// here and only ever applied when creating a brand-new account.
	if !common.IsValidRole(intendedRole) {
		return nil, nil, false, common.ErrBadRequest.WithDetails("Invalid user type in OAuth state.")
	}

	// The authorization code is single-use; no retries on failure, a retry
	// would be rejected by the provider anyway.
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, s.httpClient)
	googleCfg := getGoogleOAuthConfig(s.cfg)
	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code for token", zap.Error(err))
		return nil, nil, false, common.ErrServiceUnavailable.WithDetails("Could not exchange Google authorization code.")
	}
	if !token.Valid() {
		s.logger.Error("Google token received is invalid")
		return nil, nil, false, common.ErrServiceUnavailable.WithDetails("Received invalid token from Google.")
	}

	profile, err := s.fetchGoogleProfile(ctx, googleCfg, token)
	if err != nil {
		return nil, nil, false, err
	}

	appUser, wasCreated, err := s.users.FindOrCreateOAuthUser(c.Request.Context(), *profile, intendedRole)
	if err != nil {
		s.logger.Error("Failed to resolve account from Google profile", zap.Error(err))
		if _, ok := common.IsAPIError(err); ok {
			return nil, nil, false, err
		}
		return nil, nil, false, common.ErrInternalServer.WithDetails("Failed to process account after Google login.")
	}

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(userForToken{appUser})
	if err != nil {
		s.logger.Error("Failed to generate access token after Google login",
			zap.Error(err), zap.String("userID", appUser.ID.String()))
		return nil, nil, false, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}

	s.logger.Info("Google OAuth login successful",
		zap.String("userID", appUser.ID.String()),
		zap.Bool("new_account", wasCreated))
	return appUser, tokenResponse, wasCreated, nil
}

// fetchGoogleProfile calls the userinfo endpoint. Any failure here is terminal
// for the flow and surfaces as an upstream error.
func (s *oauthService) fetchGoogleProfile(ctx context.Context, googleCfg *oauth2.Config, token *oauth2.Token) (*shared.OAuthUserProfile, error) {
	client := googleCfg.Client(ctx, token)
	resp, err := client.Get(GoogleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Could not fetch user info from Google.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("Google user info request failed",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, common.ErrServiceUnavailable.WithDetails(
			fmt.Sprintf("Google returned status %d for user info.", resp.StatusCode))
	}

	var googleUser struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not process Google user information.")
	}
	if googleUser.ID == "" || googleUser.Email == "" {
		s.logger.Error("Google user info missing id or email")
		return nil, common.ErrServiceUnavailable.WithDetails("Incomplete user info from Google.")
	}

	name := googleUser.Name
	if name == "" {
		name = googleUser.GivenName
	}

	return &shared.OAuthUserProfile{
		Provider:   ProviderGoogle,
		ProviderID: googleUser.ID,
		Email:      strings.ToLower(googleUser.Email),
		Name:       name,
	}, nil
}

// userForToken adapts shared.User to shared.UserDataForToken.
type userForToken struct {
	u *shared.User
}

func (w userForToken) GetID() uuid.UUID { return w.u.ID }
func (w userForToken) GetRole() string  { return w.u.Role }
