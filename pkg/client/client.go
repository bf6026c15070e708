package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// DefaultCookieName is the session cookie the server sets on login
const DefaultCookieName = "arc_session"

// Client is the arcgate API client
type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
	token      string // session token for authenticated requests
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "http://localhost:3000")
	CookieName string        // Session cookie name (default: arc_session)
	Timeout    time.Duration // HTTP client timeout (default: 60s)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new arcgate API client. The underlying HTTP client
// keeps cookies, so a Login followed by other calls behaves like a browser.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cookieName: cfg.CookieName,
		httpClient: httpClient,
	}
}

// SetToken sets the session token for authenticated requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// GetToken returns the current session token
func (c *Client) GetToken() string {
	return c.token
}

// sessionCookie returns the session token the server stored in the jar
func (c *Client) sessionCookie() string {
	if c.httpClient.Jar == nil {
		return ""
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == c.cookieName {
			return cookie.Value
		}
	}
	return ""
}

// doRequest performs an HTTP request with proper error handling
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// The cookie wins on the server, so only send the header when the jar has none
	if c.token != "" && c.sessionCookie() == "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// Perform request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Errors come back as plain text
	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	// Parse success response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
