package repository

import (
	"context"

	"numis/console/internal/api"
	"numis/console/internal/dashboard/domain"
)

// Repository reads the dashboard summary.
type Repository interface {
	Summary(ctx context.Context) (*domain.Summary, error)
}

// APIRepository implements Repository over the backend API.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

func (r *APIRepository) Summary(ctx context.Context) (*domain.Summary, error) {
	var s domain.Summary
	if err := r.client.Get(ctx, "/dashboard/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
