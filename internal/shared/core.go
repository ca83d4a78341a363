// File: internal/shared/core.go
package shared

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single failure value for token verification. A
// malformed token, a bad signature, a revoked jti and an elapsed expiry all
// surface as this value so callers cannot distinguish them; the token service
// logs the underlying cause internally.
var ErrInvalidToken = errors.New("invalid or expired token")

// User represents an account as seen outside the user package. Password
// material never appears here.
type User struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Role        string
	Contact     *string
	GoogleID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// CreateUserRequest carries validated registration input into the user service.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
	Contact  string
}

// UpdateProfileRequest carries profile mutations. The role is deliberately
// absent: it is fixed at account creation.
type UpdateProfileRequest struct {
	Name    *string
	Contact *string
}

// TokenResponse represents the response containing the session token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// OAuthUserProfile holds the identity returned by the OAuth provider. It is
// transient: used only to resolve or create a local account.
type OAuthUserProfile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
}

// UserDataForToken abstracts the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetRole() string
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for session token operations.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	// ValidateToken returns claims on success and ErrInvalidToken on any failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	// RevokeToken blocklists the token's jti until the token would have expired.
	RevokeToken(ctx context.Context, tokenString string) error
}

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, *TokenResponse, error)
	Login(ctx context.Context, email, password string) (*User, *TokenResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
	FindOrCreateOAuthUser(ctx context.Context, profile OAuthUserProfile, intendedRole string) (usr *User, wasCreated bool, err error)
}
