package repository

import (
	"context"

	"numis/console/internal/user/domain"
)

// Repository reads and creates backend accounts.
type Repository interface {
	// Me returns the account the current bearer token belongs to.
	Me(ctx context.Context) (*domain.User, error)
	Register(ctx context.Context, r *domain.Registration) (*domain.User, error)
}
