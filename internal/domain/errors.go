package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")

	// Authentication errors, in the order Validate checks them.
	ErrMissingAuthHeader   = errors.New("missing authorization header")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrInvalidAPIKey       = errors.New("invalid API key")
	ErrKeyDeactivated      = errors.New("API key deactivated")
	ErrKeyExpired          = errors.New("API key expired")
	ErrPermissionDenied    = errors.New("permission denied")

	// ErrDefaultRegionProtected is returned when deleting the current default region.
	ErrDefaultRegionProtected = errors.New("default region cannot be deleted")
)

// Error codes for standardized API error responses.
const (
	ErrCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationError  = "VALIDATION_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"

	// Auth sub-codes carried in the 401 body so an integrator can tell a
	// revoked key from an expired one. The message never echoes the secret.
	ErrCodeMissingHeader  = "AUTH_MISSING_HEADER"
	ErrCodeMalformedAuth  = "AUTH_MALFORMED_SCHEME"
	ErrCodeInvalidKey     = "AUTH_INVALID_KEY"
	ErrCodeKeyDeactivated = "AUTH_KEY_DEACTIVATED"
	ErrCodeKeyExpired     = "AUTH_KEY_EXPIRED"
)

// StandardError represents a standardized error response from the API.
type StandardError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StandardErrorResponse wraps a StandardError for JSON responses.
type StandardErrorResponse struct {
	Error StandardError `json:"error"`
}

// Error implements the error interface.
func (e *StandardError) Error() string {
	return e.Message
}
