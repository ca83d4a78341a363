package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPasswordHash("s3cret-password", hash))
}

func TestCheckPasswordHash_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPassword_DistinctHashes(t *testing.T) {
	// bcrypt embeds a fresh salt per call, so equal inputs must not collide.
	hash1, err := HashPassword("same-password")
	require.NoError(t, err)
	hash2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, CheckPasswordHash("same-password", hash1))
	assert.True(t, CheckPasswordHash("same-password", hash2))
}

func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}
