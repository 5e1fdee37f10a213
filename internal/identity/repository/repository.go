package repository

import (
	"context"

	"numis/console/internal/identity/domain"
)

// Repository is the backend's authentication surface.
type Repository interface {
	// Login submits the primary credentials.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	// LoginMFA resubmits the credentials with a one-time code.
	LoginMFA(ctx context.Context, email, password, code string) (*domain.Token, error)
}
