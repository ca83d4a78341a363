package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"
	"farmlink_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tokenUser struct {
	id   uuid.UUID
	role string
}

func (u tokenUser) GetID() uuid.UUID { return u.id }
func (u tokenUser) GetRole() string  { return u.role }

func newTestTokenService(t *testing.T, secret string, ttl time.Duration) shared.TokenService {
	t.Helper()
	cfg := &config.Config{
		JWTSecretKey:      secret,
		JWTAccessTokenTTL: ttl,
	}
	return NewJWTService(cfg, NewInMemoryBlocklistService(time.Minute), zap.NewNop())
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", time.Hour)
	usr := tokenUser{id: uuid.New(), role: common.RoleFarmer}

	tokenString, expiresAt, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, usr.id, claims.UserID)
	assert.Equal(t, common.RoleFarmer, claims.Role)
	assert.NotEmpty(t, claims.ID) // jti is always set so revocation can target it
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", -time.Minute)
	usr := tokenUser{id: uuid.New(), role: common.RoleBuyer}

	tokenString, _, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestJWTService_WrongKey(t *testing.T) {
	issuer := newTestTokenService(t, "key-one", time.Hour)
	verifier := newTestTokenService(t, "key-two", time.Hour)

	tokenString, _, err := issuer.GenerateAccessToken(tokenUser{id: uuid.New(), role: common.RoleFarmer})
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(context.Background(), tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", time.Hour)

	tokenString, _, err := svc.GenerateAccessToken(tokenUser{id: uuid.New(), role: common.RoleFarmer})
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(tokenString, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	claims, err := svc.ValidateToken(context.Background(), tampered)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c", "...."} {
		claims, err := svc.ValidateToken(context.Background(), garbage)
		assert.Nil(t, claims, "token %q", garbage)
		assert.ErrorIs(t, err, shared.ErrInvalidToken, "token %q", garbage)
	}
}

// Every rejection reason must surface as the same value so a caller cannot
// probe which check failed.
func TestJWTService_UniformFailureValue(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", -time.Minute)
	other := newTestTokenService(t, "other-key", time.Hour)

	expired, _, err := svc.GenerateAccessToken(tokenUser{id: uuid.New(), role: common.RoleFarmer})
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken(tokenUser{id: uuid.New(), role: common.RoleFarmer})
	require.NoError(t, err)

	_, errExpired := svc.ValidateToken(context.Background(), expired)
	_, errForeign := svc.ValidateToken(context.Background(), foreign)
	_, errGarbage := svc.ValidateToken(context.Background(), "garbage")

	assert.Equal(t, errExpired, errForeign)
	assert.Equal(t, errForeign, errGarbage)
}

func TestJWTService_RevokeToken(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", time.Hour)

	tokenString, _, err := svc.GenerateAccessToken(tokenUser{id: uuid.New(), role: common.RoleBuyer})
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), tokenString)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(context.Background(), tokenString))

	claims, err := svc.ValidateToken(context.Background(), tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestJWTService_RevokeInvalidToken(t *testing.T) {
	svc := newTestTokenService(t, "test-signing-key-1", time.Hour)
	assert.ErrorIs(t, svc.RevokeToken(context.Background(), "garbage"), shared.ErrInvalidToken)
}

func TestInMemoryBlocklistService(t *testing.T) {
	bl := NewInMemoryBlocklistService(time.Minute)
	ctx := context.Background()

	revoked, err := bl.IsBlocklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.AddToBlocklist(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = bl.IsBlocklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// An entry whose token already expired does not need to be kept.
	require.NoError(t, bl.AddToBlocklist(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = bl.IsBlocklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
