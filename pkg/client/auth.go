package client

import (
	"context"
	"net/http"
)

// Login opens a session for email, creating the account on first use.
// The session cookie is kept in the client's jar and its value becomes
// the client token.
func (c *Client) Login(ctx context.Context, email string) (*LoginResponse, error) {
	req := map[string]string{"email": email}

	var resp LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}

	if token := c.sessionCookie(); token != "" {
		c.SetToken(token)
	}

	return &resp, nil
}

// Me retrieves the currently signed-in user, read fresh from the store
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the current session
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}
