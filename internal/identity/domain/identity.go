package domain

import "strings"

// State is where the console is in the login flow.
type State int

const (
	StateAnonymous State = iota
	StateAwaitingSecondFactor
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAwaitingSecondFactor:
		return "awaiting_second_factor"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Token is the backend's token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResult is the response of the primary login. The backend nests the token under "token";
// older builds answer with the token fields at the top level.
type LoginResult struct {
	Token       *Token `json:"token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	MFARequired bool   `json:"mfa_required"`
}

// BearerToken returns the issued access token, or "" when the response carries none.
func (r *LoginResult) BearerToken() string {
	if r == nil {
		return ""
	}
	if r.Token != nil && strings.TrimSpace(r.Token.AccessToken) != "" {
		return strings.TrimSpace(r.Token.AccessToken)
	}
	return strings.TrimSpace(r.AccessToken)
}
