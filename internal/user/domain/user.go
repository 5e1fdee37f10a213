package domain

import (
	"strings"

	"numis/console/internal/platform/jsontime"
	"numis/console/internal/platform/validation"
)

// User is the signed-in account as reported by /auth/users/me.
type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	DisplayName  string        `json:"display_name"`
	IsMFAEnabled bool          `json:"is_mfa_enabled"`
	CreatedAt    jsontime.Time `json:"created_at"`
	UpdatedAt    jsontime.Time `json:"updated_at"`
}

// Name returns the display name, falling back to the email.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.DisplayName) != "" {
		return u.DisplayName
	}
	return u.Email
}

// MinPasswordLen mirrors the backend's registration rule.
const MinPasswordLen = 8

// Registration is the payload of POST /auth/register.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// Validate checks the registration before it is sent. It trims Email and DisplayName in place.
func (r *Registration) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	var v validation.Builder
	v.Require("email", r.Email)
	if r.Email != "" {
		v.Check(strings.Contains(r.Email, "@"), "email", "must be an email address")
	}
	if r.Password == "" {
		v.Add("password", "is required")
	} else {
		v.Check(len(r.Password) >= MinPasswordLen, "password", "must be at least 8 characters")
	}
	v.Check(len(r.DisplayName) <= 100, "display_name", "must be at most 100 characters")
	return v.Err()
}
