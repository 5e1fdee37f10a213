package repository

import (
	"context"
	"net/http"
	"net/url"

	"numis/console/internal/api"
	"numis/console/internal/identity/domain"
)

// APIRepository implements Repository over the backend API.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

// Login posts the OAuth2 password form the backend expects (the email goes in "username").
func (r *APIRepository) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	form := url.Values{"username": {email}, "password": {password}}
	var out domain.LoginResult
	if err := r.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/login", Form: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepository) LoginMFA(ctx context.Context, email, password, code string) (*domain.Token, error) {
	in := map[string]string{"email": email, "password": password, "totp_code": code}
	var out domain.Token
	if err := r.client.Post(ctx, "/auth/login/mfa", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
