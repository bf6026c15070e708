package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func newAPIError(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	if msg == "" || strings.HasPrefix(msg, "{") {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg, Body: body}
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsForbidden returns true for a missing session or tier
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsAlreadySubscribed returns true when checkout was refused for a premium user
func (e *APIError) IsAlreadySubscribed() bool {
	return e.StatusCode == http.StatusBadRequest && e.Message == "Already subscribed"
}

// IsConflict returns true when another checkout for the user is in flight
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsServerError returns true if the error is a 5xx server error
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// AsAPIError extracts an APIError from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
