package repository

import (
	"context"

	"numis/console/internal/api"
	"numis/console/internal/user/domain"
)

// APIRepository implements Repository over the backend API.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

func (r *APIRepository) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := r.client.Get(ctx, "/auth/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *APIRepository) Register(ctx context.Context, reg *domain.Registration) (*domain.User, error) {
	var u domain.User
	if err := r.client.Post(ctx, "/auth/register", reg, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
