package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
)

// MaxJSONBodyBytes caps request bodies decoded by DecodeJSON
const MaxJSONBodyBytes = 1 << 20

// MessageResponse is the body of simple acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteMessage writes {"message": msg}
func WriteMessage(w http.ResponseWriter, status int, msg string) error {
	return WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError writes the AppError status with its short message as plain text.
// Codes, details and internal causes never reach the client. Errors that are
// not AppErrors become a bare 500.
func WriteError(w http.ResponseWriter, err error) error {
	appErr, ok := errors.GetAppError(err)
	if !ok {
		return WriteText(w, http.StatusInternalServerError, "Internal server error")
	}
	return WriteText(w, appErr.StatusCode, appErr.Message)
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := io.WriteString(w, msg)
	return err
}

// DecodeJSON decodes a JSON request body into dst. An empty body leaves dst
// untouched.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return err
	}
	return nil
}
