package common

import (
	"errors"
	"net/http"
)

// SuccessResponse is the body of every accepted submission
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every rejected request
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates a new error API response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// APIError is a request failure with the status and public message it maps to.
// Cause is logged but never sent to the client.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches any APIError with the same status and message, so wrapped
// copies still compare equal to the sentinels below.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Status == t.Status && e.Message == t.Message
}

// WithCause returns a copy of e that carries cause for logging
func (e *APIError) WithCause(cause error) *APIError {
	return &APIError{Status: e.Status, Message: e.Message, Cause: cause}
}

// Request failures, one per error class
var (
	ErrMethodNotAllowed = &APIError{Status: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrInvalidOrigin    = &APIError{Status: http.StatusForbidden, Message: "Invalid request origin"}
	ErrRateLimited      = &APIError{Status: http.StatusTooManyRequests, Message: "Too many requests. Please try again later."}
	ErrMissingFields    = &APIError{Status: http.StatusBadRequest, Message: "Missing required fields"}
	ErrEmailRequired    = &APIError{Status: http.StatusBadRequest, Message: "Email is required"}
	ErrInvalidEmail     = &APIError{Status: http.StatusBadRequest, Message: "Invalid email format"}
	ErrInternal         = &APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}
)
