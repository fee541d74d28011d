package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(20)
	require.NoError(t, err)
	b, err := GenerateToken(20)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	// URL-safe alphabet, no padding
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("sup3r-secret")
	require.NoError(t, err)

	assert.NotEqual(t, "sup3r-secret", hash)
	assert.True(t, CompareHashAndPassword(hash, "sup3r-secret"))
	assert.False(t, CompareHashAndPassword(hash, "wrong"))
}
