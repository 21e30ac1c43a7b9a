package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("user-123", "pat@example.com", "coach", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, "coach", claims.Role)
}

func TestGenerateJWTDefaultTTL(t *testing.T) {
	token, err := GenerateJWT("user-123", "pat@example.com", "athlete", testSecret, 0)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, DefaultTokenTTL)
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT("user-123", "pat@example.com", "athlete", testSecret, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = ValidateJWT(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-123", "pat@example.com", "athlete", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "a different secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWTTampered(t *testing.T) {
	token, err := GenerateJWT("user-123", "pat@example.com", "athlete", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token+"x", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateJWT("definitely.not.ajwt", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
