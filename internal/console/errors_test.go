package console

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"numis/console/internal/api"
	identityservice "numis/console/internal/identity/service"
	mfaservice "numis/console/internal/mfa/service"
	"numis/console/internal/platform/validation"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", validation.New("email", "is required"), "Invalid input: email: is required"},
		{"wrapped validation", fmt.Errorf("create: %w", validation.New("year", "is required")), "Invalid input: year: is required"},
		{"cancelled", context.Canceled, "Cancelled."},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), "The server took too long to answer."},
		{"no route", ErrNoRoute, "No page at that path."},
		{"already enabled", mfaservice.ErrAlreadyEnabled, "MFA is already enabled."},
		{"expired", fmt.Errorf("verify: %w", identityservice.ErrChallengeExpired), "Second factor challenge expired; sign in again."},
		{"network", &api.NetworkError{Op: "GET /coins", Err: errors.New("dial tcp: refused")}, msgNetwork},
		{"detail", &api.Error{StatusCode: 400, Detail: "Quantity cannot be negative"}, "Quantity cannot be negative"},
		{"wrapped detail", fmt.Errorf("login: %w", &api.Error{StatusCode: 401, Detail: "Incorrect email or password"}), "Incorrect email or password"},
		{"401", &api.Error{StatusCode: 401}, msgUnauthorized},
		{"403", &api.Error{StatusCode: 403}, msgForbidden},
		{"404", &api.Error{StatusCode: 404}, msgNotFound},
		{"500", &api.Error{StatusCode: 500}, msgGeneric},
		{"plain", errors.New("boom"), msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeError(tt.err); got != tt.want {
				t.Errorf("DescribeError = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsEmptyState(t *testing.T) {
	if !IsEmptyState(fmt.Errorf("get coin: %w", &api.Error{StatusCode: 404})) {
		t.Error("404 should be an empty state")
	}
	if IsEmptyState(&api.Error{StatusCode: 500}) || IsEmptyState(errors.New("x")) {
		t.Error("only 404 is an empty state")
	}
}
