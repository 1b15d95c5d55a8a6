package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_SessionToken(t *testing.T) {
	maker := NewMaker("test-secret", 12*time.Hour, 15*time.Minute)

	token, err := maker.GenerateSessionToken("user-1", "Admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token, KindSession)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, KindSession, claims.Kind)
}

func TestMaker_TempTokenCarriesNoRole(t *testing.T) {
	maker := NewMaker("test-secret", 12*time.Hour, 15*time.Minute)

	token, err := maker.GenerateTempToken("user-1")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token, KindTemp)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Role)
}

func TestMaker_KindMismatchRejected(t *testing.T) {
	maker := NewMaker("test-secret", 12*time.Hour, 15*time.Minute)

	tempToken, err := maker.GenerateTempToken("user-1")
	require.NoError(t, err)

	// временный токен нельзя предъявить как сессионный
	_, err = maker.ParseToken(tempToken, KindSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	resetToken, err := maker.GenerateResetToken("user-1")
	require.NoError(t, err)

	_, err = maker.ParseToken(resetToken, KindSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = maker.ParseToken(resetToken, KindTemp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaker_ExpiredTokenRejected(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute, -time.Minute)

	token, err := maker.GenerateSessionToken("user-1", "Admin")
	require.NoError(t, err)

	_, err = maker.ParseToken(token, KindSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaker_WrongSecretRejected(t *testing.T) {
	maker := NewMaker("test-secret", 12*time.Hour, 15*time.Minute)
	other := NewMaker("other-secret", 12*time.Hour, 15*time.Minute)

	token, err := maker.GenerateSessionToken("user-1", "Admin")
	require.NoError(t, err)

	_, err = other.ParseToken(token, KindSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMaker_GarbageRejected(t *testing.T) {
	maker := NewMaker("test-secret", 12*time.Hour, 15*time.Minute)

	_, err := maker.ParseToken("not-a-jwt", KindSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
