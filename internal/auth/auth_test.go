package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seller-backend/internal/config"
	"seller-backend/internal/models"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "seller-backend-test"
	return NewJWTManager(cfg)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := testManager("s3cret")
	user := &models.User{ID: 42, Email: "ana@example.com"}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "seller-backend-test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := testManager("one").GenerateToken(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = testManager("two").ValidateToken(token)
	assert.Error(t, err)
}

func TestTypedTokensAreNotInterchangeable(t *testing.T) {
	m := testManager("s3cret")
	user := &models.User{ID: 7, Email: "b@example.com"}

	reset, err := m.GenerateResetToken(user)
	require.NoError(t, err)
	temp, err := m.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	_, err = m.ValidateTempToken(reset)
	assert.Error(t, err)
	_, err = m.ValidateResetToken(temp)
	assert.Error(t, err)
	_, err = m.ValidateToken(reset)
	assert.Error(t, err, "a recovery token is not a session")
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))

	assert.NoError(t, ValidateNewPassword("abcdef", "abcdef"))
	assert.ErrorIs(t, ValidateNewPassword("abcdef", "abcdeg"), ErrPasswordMismatch)
	assert.ErrorIs(t, ValidateNewPassword("abc", "abc"), ErrPasswordTooShort)
}
