package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := DefaultPasswordConfig()

	hash, salt, err := HashPassword("correct horse battery staple", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	match, err := VerifyPassword("correct horse battery staple", hash, salt, cfg)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("wrong password", hash, salt, cfg)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	cfg := DefaultPasswordConfig()

	_, salt1, err := HashPassword("password", cfg)
	require.NoError(t, err)
	_, salt2, err := HashPassword("password", cfg)
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
}

func TestVerifyPasswordRejectsBadEncoding(t *testing.T) {
	cfg := DefaultPasswordConfig()

	_, err := VerifyPassword("password", "!!!not-base64!!!", "c2FsdA==", cfg)
	assert.Error(t, err)

	_, err = VerifyPassword("password", "aGFzaA==", "!!!not-base64!!!", cfg)
	assert.Error(t, err)
}
