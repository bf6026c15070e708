package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeDuplicateKey       = "DUPLICATE_KEY"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeAlreadySubscribed  = "ALREADY_SUBSCRIBED"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeGateway            = "GATEWAY_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an error for a missing or invalid session.
// Browsers get 403 here, not 401, since there is no auth challenge to answer.
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusForbidden)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// DuplicateKey creates a uniqueness violation error
func DuplicateKey(resource string, err error) *AppError {
	return Wrap(err, ErrCodeDuplicateKey, fmt.Sprintf("%s already exists", resource), http.StatusConflict)
}

// AlreadySubscribed is returned when a premium user asks for another checkout
func AlreadySubscribed() *AppError {
	return New(ErrCodeAlreadySubscribed, "Already subscribed", http.StatusBadRequest)
}

// InvalidSignature creates a webhook verification error
func InvalidSignature(err error) *AppError {
	msg := "Webhook error"
	if err != nil {
		msg = fmt.Sprintf("Webhook error: %s", err.Error())
	}
	return Wrap(err, ErrCodeInvalidSignature, msg, http.StatusBadRequest)
}

// GatewayError creates an upstream failure error. The message is what the
// client sees; err is only logged.
func GatewayError(message string, err error) *AppError {
	return Wrap(err, ErrCodeGateway, message, http.StatusInternalServerError)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}

// GetAppError extracts an AppError from err's chain
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code string) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err is a NOT_FOUND AppError
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodeNotFound)
}

// IsDuplicateKey reports whether err is a DUPLICATE_KEY AppError
func IsDuplicateKey(err error) bool {
	return HasCode(err, ErrCodeDuplicateKey)
}

// Is and As re-export the standard helpers so callers need one import
var (
	Is = stderrors.Is
	As = stderrors.As
)
