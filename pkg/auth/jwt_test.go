package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("s3cret", time.Hour)
	token, jti, expiresAt, err := m.GenerateToken(UserSession{ID: "u1", Name: "Ann", Email: "ann@example.com", Admin: true})
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.User.ID)
	assert.True(t, claims.User.Admin)
	assert.Equal(t, jti, claims.ID)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, _, _, err := NewTokenManager("one", time.Hour).GenerateToken(UserSession{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("s3cret", time.Nanosecond)
	token, _, _, err := m.GenerateToken(UserSession{ID: "u1"})
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHelpers(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("password", hash))
	assert.False(t, VerifyPassword("nope", hash))

	assert.True(t, IsValidEmail("lead@example.com"))
	assert.False(t, IsValidEmail("lead@"))
	assert.False(t, IsValidEmail("x"))
}
