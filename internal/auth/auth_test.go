package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "secret123"))
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, "LIBRARIAN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "LIBRARIAN", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, "READER", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("test-secret", 42, "READER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("test-secret", token)
	require.Error(t, err)
}
