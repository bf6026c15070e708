package client

import (
	"context"
	"net/http"
)

// CreatePayment starts a weekly subscription checkout and returns the
// hosted checkout session
func (c *Client) CreatePayment(ctx context.Context) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.doRequest(ctx, http.MethodPost, "/create-payment", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
