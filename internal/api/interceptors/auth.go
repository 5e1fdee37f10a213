package interceptors

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// TokenSource returns the current bearer token, or "" when there is no session.
type TokenSource interface {
	Token() string
}

// Bearer attaches "Authorization: Bearer <token>" whenever tokens has a session.
// Requests that already carry an Authorization header are left alone.
func Bearer(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if tokens == nil || r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}
			token := strings.TrimSpace(tokens.Token())
			if token == "" {
				return next.RoundTrip(r)
			}
			r = cloneRequest(r)
			r.Header.Set("Authorization", bearerPrefix+token)
			return next.RoundTrip(r)
		})
	}
}

