package repository

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"numis/console/internal/api"
	"numis/console/internal/audit/domain"
)

// APIRepository implements Repository over the backend API. The endpoint is admin-only; other
// accounts get a 403.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

func (r *APIRepository) List(ctx context.Context, f domain.Filter) (*domain.Page, error) {
	var out domain.Page
	if err := r.client.Get(ctx, "/admin/audit-logs", listQuery(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listQuery(f domain.Filter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Action != "" {
		q.Set("action", string(f.Action))
	}
	if f.CoinID > 0 {
		q.Set("coin_id", strconv.FormatInt(f.CoinID, 10))
	}
	if f.ActorEmail != "" {
		q.Set("actor_email", f.ActorEmail)
	}
	if !f.DateFrom.IsZero() {
		q.Set("date_from", f.DateFrom.UTC().Format(time.RFC3339))
	}
	if !f.DateTo.IsZero() {
		q.Set("date_to", f.DateTo.UTC().Format(time.RFC3339))
	}
	return q
}
