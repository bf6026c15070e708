package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Health checks the health of the API
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/healthz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready reports whether the API's dependencies are reachable. A 503 still
// returns the per-check breakdown alongside the error.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, &health)
	if err == nil {
		return &health, nil
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.StatusCode == http.StatusServiceUnavailable {
		if json.Unmarshal(apiErr.Body, &health) == nil {
			return &health, err
		}
	}
	return nil, err
}

// Ping is a simple connectivity test
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}
