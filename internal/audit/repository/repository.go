package repository

import (
	"context"

	"numis/console/internal/audit/domain"
)

// Repository reads the backend's coin audit trail. Records are immutable; there is no write side.
type Repository interface {
	List(ctx context.Context, f domain.Filter) (*domain.Page, error)
}
