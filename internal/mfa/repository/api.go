package repository

import (
	"context"

	"numis/console/internal/api"
)

// APIRepository implements Repository over the backend API.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

type codeRequest struct {
	TOTPCode string `json:"totp_code"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (r *APIRepository) Setup(ctx context.Context) (string, error) {
	var out struct {
		ProvisioningURI string `json:"provisioning_uri"`
	}
	if err := r.client.Post(ctx, "/auth/mfa/setup", nil, &out); err != nil {
		return "", err
	}
	return out.ProvisioningURI, nil
}

func (r *APIRepository) Verify(ctx context.Context, code string) (string, error) {
	var out detailResponse
	if err := r.client.Post(ctx, "/auth/mfa/verify", codeRequest{TOTPCode: code}, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}

func (r *APIRepository) Disable(ctx context.Context, code string) (string, error) {
	var out detailResponse
	if err := r.client.Post(ctx, "/auth/mfa/disable", codeRequest{TOTPCode: code}, &out); err != nil {
		return "", err
	}
	return out.Detail, nil
}
