package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/tutor-engine/internal/domain"
)

var jwtTestConfig = JWTConfig{
	Secret:    "unit-test-secret",
	Issuer:    "studenthub",
	ExpiresIn: time.Hour,
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(&domain.UserContext{
		UserID: "u-42",
		Email:  "ada@example.com",
		Name:   "Ada",
		Role:   "admin",
	}, jwtTestConfig)
	require.NoError(t, err)

	claims, err := validateJWT(token, jwtTestConfig.Secret, jwtTestConfig.Issuer)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTRejectsTamperedSignature(t *testing.T) {
	token, err := GenerateJWT(&domain.UserContext{UserID: "u-42"}, jwtTestConfig)
	require.NoError(t, err)

	_, err = validateJWT(token+"x", jwtTestConfig.Secret, jwtTestConfig.Issuer)
	assert.Error(t, err)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(&domain.UserContext{UserID: "u-42"}, jwtTestConfig)
	require.NoError(t, err)

	_, err = validateJWT(token, "other-secret", jwtTestConfig.Issuer)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	expired := jwtTestConfig
	expired.ExpiresIn = -time.Minute

	token, err := GenerateJWT(&domain.UserContext{UserID: "u-42"}, expired)
	require.NoError(t, err)

	_, err = validateJWT(token, jwtTestConfig.Secret, jwtTestConfig.Issuer)
	assert.ErrorContains(t, err, "expired")
}

func TestJWTRejectsWrongIssuer(t *testing.T) {
	token, err := GenerateJWT(&domain.UserContext{UserID: "u-42"}, jwtTestConfig)
	require.NoError(t, err)

	_, err = validateJWT(token, jwtTestConfig.Secret, "someone-else")
	assert.ErrorContains(t, err, "issuer")
}
