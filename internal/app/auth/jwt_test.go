package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
)

func signToken(t *testing.T, secret, userID, roles string) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestParseTokenReturnsClaims(t *testing.T) {
	svc := NewTokenService("secret")
	raw := signToken(t, "secret", "EZQWG0Z1", "Admin|Driver")

	claims, err := svc.ParseToken("Bearer " + raw)
	require.NoError(t, err)
	assert.Equal(t, "EZQWG0Z1", claims.UserID)
	assert.True(t, claims.IsAdmin())
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := NewTokenService("secret")
	raw := signToken(t, "other-secret", "EZQWG0Z1", "Driver")

	_, err := svc.ParseToken(raw)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestIsAdmin(t *testing.T) {
	svc := NewTokenService("secret")

	assert.True(t, svc.IsAdmin(signToken(t, "secret", "U1", "Admin")))
	assert.False(t, svc.IsAdmin(signToken(t, "secret", "U2", "Driver|Shipper")))
	assert.False(t, svc.IsAdmin("not-a-token"))
}

func TestUserIDFromToken(t *testing.T) {
	svc := NewTokenService("secret")
	userID, err := svc.UserIDFromToken(signToken(t, "secret", "4ZM80EZ0", "Driver"))
	require.NoError(t, err)
	assert.Equal(t, "4ZM80EZ0", userID)
}
