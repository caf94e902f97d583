package api

import (
	"errors"
	"fmt"
)

// RequestError is the uniform failure raised by the gateway for any
// non-success response. Message carries the backend's structured error
// text, or the generic fallback when the body could not be parsed.
// Callers never see transport-level detail.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// AuthError indicates rejected or expired credentials (HTTP 401).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ValidationError indicates the backend rejected malformed input (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError indicates a duplicate resource (HTTP 409), typically a
// registration with an email that is already taken.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// statusError maps a non-success HTTP status and backend message to the
// matching error kind. The finer kinds are backend-message conventions;
// everything else collapses into RequestError.
func statusError(statusCode int, message string) error {
	switch statusCode {
	case 400:
		return &ValidationError{Message: message}
	case 401:
		return &AuthError{Message: message}
	case 409:
		return &ConflictError{Message: message}
	default:
		return &RequestError{StatusCode: statusCode, Message: message}
	}
}

// invalidIDError builds the error returned when an identifier fails
// client-side validation before any round trip is made.
func invalidIDError(kind, id string) error {
	return &ValidationError{Message: fmt.Sprintf("invalid %s ID %q", kind, id)}
}
