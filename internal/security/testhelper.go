package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// testSigningKey signs tokens for unit tests only. The console never verifies signatures.
var testSigningKey = []byte("numis-test-key")

// NewTestToken returns an HS256 access token for subject expiring after ttl.
// For unit tests only.
func NewTestToken(subject string, ttl time.Duration) string {
	now := time.Now().UTC()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		panic(err)
	}
	return s
}
