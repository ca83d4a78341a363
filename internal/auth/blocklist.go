// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenBlocklistService defines the interface for a JWT blocklist. Logout adds
// the token's jti here; tokens past their own expiry need no entry at all.
// The blocklist is a per-instance convenience: cross-instance revocation
// remains signing-key rotation.
type TokenBlocklistService interface {
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklistService is an in-memory TokenBlocklistService backed by a
// TTL cache. go-cache is safe for concurrent use.
type InMemoryBlocklistService struct {
	cache *cache.Cache
}

// NewInMemoryBlocklistService creates a new in-memory blocklist service.
// cleanupInterval controls how often expired jtis are purged.
func NewInMemoryBlocklistService(cleanupInterval time.Duration) *InMemoryBlocklistService {
	return &InMemoryBlocklistService{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// AddToBlocklist records a jti for exactly as long as the token it came from
// would have been valid.
func (s *InMemoryBlocklistService) AddToBlocklist(_ context.Context, jti string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	if duration <= 0 {
		return nil
	}
	s.cache.Set(jti, struct{}{}, duration)
	return nil
}

// IsBlocklisted checks whether a jti has been revoked.
func (s *InMemoryBlocklistService) IsBlocklisted(_ context.Context, jti string) (bool, error) {
	_, found := s.cache.Get(jti)
	return found, nil
}
