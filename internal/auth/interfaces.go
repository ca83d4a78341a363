// File: internal/auth/interfaces.go
package auth

import (
	"context"

	"farmlink_backend/internal/shared"

	"github.com/google/uuid"
)

// OAuthUserProvider defines the user operations needed by the OAuth service.
// Implemented by user.ServiceImplementation.
type OAuthUserProvider interface {
	FindOrCreateOAuthUser(ctx context.Context, profile shared.OAuthUserProfile, intendedRole string) (usr *shared.User, wasCreated bool, err error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error)
}
