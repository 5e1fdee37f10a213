package domain

import "time"

// Event types emitted by the console.
const (
	EventLogin        = "auth.login"
	EventMFAChallenge = "auth.mfa_challenge"
	EventMFAVerified  = "auth.mfa_verified"
	EventLoginFailed  = "auth.login_failed"
	EventLogout       = "auth.logout"
	EventNavigation   = "navigation"
)

// Event is one console telemetry event. Attributes carry event-specific detail; credentials and
// tokens never appear in them.
type Event struct {
	ID         string
	Type       string
	Source     string
	Subject    string // user id from the token, empty when unknown
	Attributes map[string]string
	CreatedAt  time.Time
}
