package console

import (
	"context"
	"errors"
	"net/http"

	"numis/console/internal/api"
	identityservice "numis/console/internal/identity/service"
	mfaservice "numis/console/internal/mfa/service"
	"numis/console/internal/platform/validation"
)

var (
	// ErrNoRoute is returned when no route matches the requested path.
	ErrNoRoute = errors.New("no page at that path")
	// ErrRedirectLoop is returned when a navigation keeps redirecting.
	ErrRedirectLoop = errors.New("too many redirects")
)

// knownErrors are shown with their own message.
var knownErrors = []error{
	ErrNoRoute,
	ErrRedirectLoop,
	identityservice.ErrAlreadyAuthenticated,
	identityservice.ErrNoChallenge,
	identityservice.ErrChallengeExpired,
	identityservice.ErrNoToken,
	mfaservice.ErrAlreadyEnabled,
	mfaservice.ErrBadProvisioningURI,
}

// Messages shown for failures without a server detail.
const (
	msgNetwork      = "Could not reach the server. Check your connection and NUMIS_API_URL."
	msgUnauthorized = "Your session is not valid. Sign in again."
	msgForbidden    = "You are not allowed to do that."
	msgNotFound     = "Not found."
	msgGeneric      = "Something went wrong. Please try again."
)

// DescribeError turns a handler error into one line for the user. Validation problems come
// first, then known conditions and network failures, then the server detail verbatim, then a
// message by status.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	if verr, ok := validation.As(err); ok {
		return "Invalid input: " + verr.Error()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	}
	for _, s := range knownErrors {
		if errors.Is(err, s) {
			return capitalize(s.Error()) + "."
		}
	}
	if api.IsNetwork(err) {
		return msgNetwork
	}
	if detail := api.Detail(err); detail != "" {
		return detail
	}
	switch api.StatusCode(err) {
	case 0:
		return msgGeneric
	case http.StatusUnauthorized:
		return msgUnauthorized
	case http.StatusForbidden:
		return msgForbidden
	case http.StatusNotFound:
		return msgNotFound
	default:
		return msgGeneric
	}
}

// IsEmptyState reports whether err should render as an in-page empty state rather than an error.
func IsEmptyState(err error) bool { return api.IsNotFound(err) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
