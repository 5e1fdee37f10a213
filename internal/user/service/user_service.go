// Package service exposes the account operations of the console: who am I, and sign-up.
package service

import (
	"context"
	"fmt"

	"numis/console/internal/user/domain"
	"numis/console/internal/user/repository"
)

// UserService wraps the account repository with input validation.
type UserService struct {
	repo repository.Repository
}

// NewUserService returns a UserService backed by repo.
func NewUserService(repo repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Me returns the signed-in account.
func (s *UserService) Me(ctx context.Context) (*domain.User, error) {
	u, err := s.repo.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return u, nil
}

// Register validates reg and creates the account. Invalid input never reaches the backend.
func (s *UserService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	u, err := s.repo.Register(ctx, &reg)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return u, nil
}
