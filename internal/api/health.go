package api

import (
	"context"
	"net/http"
)

// HealthStatus is the backend root response.
type HealthStatus struct {
	Status  string `json:"status"`
	AppName string `json:"app_name"`
}

// Health calls GET on the server root. It needs no session.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: c.RootURL + "/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
