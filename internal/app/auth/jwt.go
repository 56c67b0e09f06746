package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
)

// TokenService validates bearer tokens issued by the identity provider and
// exposes the two facts this service cares about: the caller's (encoded)
// user id and whether the caller is an admin.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Claims carried by the identity provider's tokens. UserID is the encoded
// form - it is decoded by the id codec, never used raw.
type Claims struct {
	UserID string `json:"userId"`
	Roles  string `json:"roles"` // pipe-separated, e.g. "Admin|Driver"
	jwt.RegisteredClaims
}

// IsAdmin reports whether the Admin role is present in the claims.
func (c *Claims) IsAdmin() bool {
	for _, role := range strings.Split(c.Roles, "|") {
		if role == "Admin" {
			return true
		}
	}
	return false
}

// ParseToken validates the raw token string and returns its claims.
// The "Bearer " prefix is tolerated so handlers can pass the header as-is.
func (s *TokenService) ParseToken(raw string) (*Claims, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	return claims, nil
}

// UserIDFromToken returns the encoded user id carried by the token.
func (s *TokenService) UserIDFromToken(raw string) (string, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// IsAdmin reports whether the token carries the Admin role. An invalid
// token is simply not an admin.
func (s *TokenService) IsAdmin(raw string) bool {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return false
	}
	return claims.IsAdmin()
}
