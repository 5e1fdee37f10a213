package repository

import "context"

// Repository is the backend's authenticator enrollment surface. Every call acts on the account of
// the current bearer token.
type Repository interface {
	// Setup starts an enrollment and returns the otpauth:// provisioning URI.
	Setup(ctx context.Context) (string, error)
	// Verify confirms the enrollment with a code and returns the backend's message.
	Verify(ctx context.Context, code string) (string, error)
	// Disable turns the second factor off after checking a code.
	Disable(ctx context.Context, code string) (string, error)
}
