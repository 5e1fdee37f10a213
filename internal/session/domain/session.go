package domain

import "numis/console/internal/security"

// TokenKey is the key the bearer token is persisted under.
const TokenKey = "access_token"

// Session is the console's view of the current login.
// Authenticated is true exactly when Token is non-empty.
type Session struct {
	Token         string
	Identity      *security.Identity // nil when the token payload could not be decoded
	Authenticated bool
}

// New builds the session for token, decoding identity best-effort.
func New(token string) Session {
	if token == "" {
		return Session{}
	}
	return Session{
		Token:         token,
		Identity:      security.DecodeIdentity(token),
		Authenticated: true,
	}
}

// Snapshot is a point-in-time read of the session store.
type Snapshot struct {
	Session
	// Loading is true until the persisted token has been checked at startup.
	Loading bool
}
