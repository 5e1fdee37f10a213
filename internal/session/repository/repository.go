package repository

import (
	"context"
	"errors"
)

// ErrCorrupt is returned when the persisted state cannot be decoded.
var ErrCorrupt = errors.New("session state corrupt")

// Repository persists string values by key (the bearer token lives under domain.TokenKey).
type Repository interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
