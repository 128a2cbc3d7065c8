// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(userID, "user@example.com", "seller", false, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
	assert.False(t, claims.IsStaff)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestExpiredJWTRejected(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "user@example.com", "buyer", false, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 1)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)

	_, err = ValidateRefreshToken("garbage")
	assert.Error(t, err)
}

func TestConfirmationTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateConfirmationToken(userID)
	require.NoError(t, err)

	subject, err := ValidateConfirmationToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
