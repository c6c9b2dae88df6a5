package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorLogin(t *testing.T) {
	s, err := NewAuthService("open-sesame", "jwt-secret")
	require.NoError(t, err)

	_, err = s.Login("wrong")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)

	token, err := s.Login("open-sesame")
	require.NoError(t, err)
	assert.NoError(t, s.ValidateToken(token))
}

func TestValidateTokenRejects(t *testing.T) {
	s, err := NewAuthService("open-sesame", "jwt-secret")
	require.NoError(t, err)

	other, err := NewAuthService("open-sesame", "different-secret")
	require.NoError(t, err)
	foreign, err := other.GenerateToken()
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	expired, err := s.GenerateToken()
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong key":    foreign,
		"missing role": noRole,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			var authErr *AuthenticationError
			assert.ErrorAs(t, s.ValidateToken(token), &authErr)
		})
	}
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService("", "jwt-secret")
	assert.Error(t, err)
}
