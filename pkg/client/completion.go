package client

import (
	"context"
	"net/http"
)

// ArcCore completes prompt on the core tier. Any signed-in user may call it.
func (c *Client) ArcCore(ctx context.Context, prompt string) (*Completion, error) {
	return c.complete(ctx, "/api/arc-core", prompt)
}

// ArcPlus completes prompt on the plus tier. It needs an active subscription.
func (c *Client) ArcPlus(ctx context.Context, prompt string) (*Completion, error) {
	return c.complete(ctx, "/api/arc-plus", prompt)
}

func (c *Client) complete(ctx context.Context, path, prompt string) (*Completion, error) {
	var resp Completion
	if err := c.doRequest(ctx, http.MethodPost, path, map[string]string{"prompt": prompt}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
