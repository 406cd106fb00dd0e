package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue("user-1", RoleStaff)
	require.NoError(t, err)

	caller, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", caller.UserID)
	assert.True(t, caller.IsStaff())
	assert.False(t, caller.IsAnonymous())
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	other := NewTokens("other-secret", time.Hour)

	raw, err := other.Issue("user-1", RoleStaff)
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("test-secret", time.Nanosecond)
	raw, err = expired.Issue("user-1", RoleCustomer)
	require.NoError(t, err)
	time.Sleep(time.Second)
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"))

	assert.Equal(t, 0, l.Sweep(time.Hour))
	assert.Equal(t, 2, l.Sweep(-time.Second))
	assert.True(t, l.Allow("1.1.1.1"))
}
