package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed.
	ErrInvalidToken = errors.New("invalid token")
)

// AccessClaims holds the claims the catalog backend puts in its access token (sub is the user id).
type AccessClaims struct {
	jwt.RegisteredClaims
}

// Identity is what the console knows about the user from the token payload alone.
// The signature is never checked client-side; the backend is authoritative.
type Identity struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token's exp claim is before now. Tokens without exp never expire.
func (i *Identity) Expired(now time.Time) bool {
	return i != nil && !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// ParseAccessClaims decodes the payload segment of token without verifying it.
func ParseAccessClaims(token string) (*AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeIdentity returns the identity carried by token, or nil when the token is malformed.
// It never fails, so a corrupted persisted token cannot block startup.
func DecodeIdentity(token string) *Identity {
	claims, err := ParseAccessClaims(token)
	if err != nil {
		return nil
	}
	id := &Identity{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id
}
