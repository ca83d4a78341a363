// File: internal/auth/auth_helper.go
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"farmlink_backend/internal/config"
	"farmlink_backend/internal/platform/crypto"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is a variable so tests can point it at a stub server.
var GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// setOAuthCookie sets a short-lived HttpOnly cookie for the CSRF nonce.
func setOAuthCookie(c *gin.Context, cfg *config.Config, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   cfg.OAuthCookieDomain,
		MaxAge:   cfg.OAuthCookieMaxAge * 60,
		Secure:   cfg.OAuthCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// getOAuthCookie retrieves and deletes an OAuth cookie.
func getOAuthCookie(c *gin.Context, cfg *config.Config, name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", fmt.Errorf("%s cookie not found: %w", name, err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.OAuthCookieDomain,
		MaxAge:   -1,
		Secure:   cfg.OAuthCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value, nil
}

func generateAndSetOAuthNonce(c *gin.Context, cfg *config.Config) (string, error) {
	nonce, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	setOAuthCookie(c, cfg, cfg.OAuthStateCookieName, nonce)
	return nonce, nil
}

// encodeState packs the CSRF nonce and the intended role into the OAuth state
// parameter. The role half travels through the attacker-observable redirect
// and is therefore only ever a hint for the account-creation path.
func encodeState(nonce, intendedRole string) string {
	return nonce + "." + intendedRole
}

// decodeState splits a state parameter back into nonce and intended role.
func decodeState(state string) (nonce, intendedRole string, err error) {
	nonce, intendedRole, ok := strings.Cut(state, ".")
	if !ok || nonce == "" || intendedRole == "" {
		return "", "", fmt.Errorf("malformed oauth state")
	}
	return nonce, intendedRole, nil
}

func getGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}
