package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	t1, err := NewResetToken()
	require.NoError(t, err)
	t2, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, t1, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, t1, t2)
}

func TestHashTokenDeterministic(t *testing.T) {
	token, err := NewResetToken()
	require.NoError(t, err)

	assert.Equal(t, HashToken(token), HashToken(token))
	assert.NotEqual(t, token, HashToken(token))
	assert.Len(t, HashToken(token), 64)
}

func TestTokenExpiry(t *testing.T) {
	expiry := TokenExpiry()
	assert.True(t, expiry.After(time.Now().Add(23*time.Hour)))
	assert.False(t, TokenExpired(expiry))
	assert.True(t, TokenExpired(time.Now().Add(-time.Minute)))
}
