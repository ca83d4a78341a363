// File: internal/auth/service.go
package auth

import (
	"context"
	"time"

	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssuer = "farmlink_backend"

// JWTService implements shared.TokenService with HS256-signed stateless
// tokens. Verification needs only the token and the signing key, so instances
// scale horizontally; rotating the key invalidates every outstanding token.
type JWTService struct {
	cfg       *config.Config
	blocklist TokenBlocklistService
	logger    *zap.Logger
}

// NewJWTService creates a new JWT token service.
func NewJWTService(cfg *config.Config, blocklist TokenBlocklistService, logger *zap.Logger) shared.TokenService {
	return &JWTService{cfg: cfg, blocklist: blocklist, logger: logger.Named("JWTService")}
}

// GenerateAccessToken issues a session token for the given account. The expiry
// is issued-at plus the configured TTL.
func (s *JWTService) GenerateAccessToken(userData shared.UserDataForToken) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(s.cfg.JWTAccessTokenTTL)

	claims := &shared.Claims{
		UserID: userData.GetID(),
		Role:   userData.GetRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userData.GetID().String(),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// ValidateToken verifies a session token and returns its claims. Every failure
// mode collapses into shared.ErrInvalidToken so the caller cannot be used as an
// oracle for why a token was rejected; the cause is only logged.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*shared.Claims, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		s.logger.Warn("Token validation failed", zap.Error(err))
		return nil, shared.ErrInvalidToken
	}

	if s.blocklist != nil && claims.ID != "" {
		revoked, err := s.blocklist.IsBlocklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("Blocklist lookup failed", zap.Error(err))
			return nil, shared.ErrInvalidToken
		}
		if revoked {
			s.logger.Warn("Rejected revoked token", zap.String("jti", claims.ID))
			return nil, shared.ErrInvalidToken
		}
	}

	return claims, nil
}

// RevokeToken blocklists the token's jti until the token's own expiry. The
// token must still be valid: revoking an already-invalid token is a no-op
// reported as the same uniform failure.
func (s *JWTService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		s.logger.Warn("Refusing to revoke invalid token", zap.Error(err))
		return shared.ErrInvalidToken
	}
	if s.blocklist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *JWTService) parseClaims(tokenString string) (*shared.Claims, error) {
	claims := &shared.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecretKey), nil
		},
		// Pinning the algorithm prevents downgrade tricks like alg=none.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}
