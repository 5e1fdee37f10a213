package domain

import "time"

// Challenge is a pending second factor: the primary credentials were accepted and the backend
// asked for a one-time code. The credentials live only in memory and only until the challenge
// resolves, expires or is cancelled.
type Challenge struct {
	Email     string
	Password  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewChallenge returns a challenge for the credentials valid for ttl from now.
func NewChallenge(email, password string, now time.Time, ttl time.Duration) *Challenge {
	return &Challenge{
		Email:     email,
		Password:  password,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the challenge is no longer usable at now.
func (c *Challenge) Expired(now time.Time) bool {
	return c == nil || !c.ExpiresAt.After(now)
}

// Wipe drops the retained credentials.
func (c *Challenge) Wipe() {
	if c == nil {
		return
	}
	c.Email = ""
	c.Password = ""
}
