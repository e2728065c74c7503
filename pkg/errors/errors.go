// Package errors defines the application error taxonomy shared by all layers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an error for transport-level mapping and retry decisions.
type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION"
	ErrorTypeAuthRequired     ErrorType = "AUTH_REQUIRED"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeStoreUnavailable ErrorType = "STORE_UNAVAILABLE"
	ErrorTypeRateLimited      ErrorType = "RATE_LIMITED"
	ErrorTypeGenerationFailed ErrorType = "GENERATION_FAILED"
	ErrorTypeInternal         ErrorType = "INTERNAL"
)

// AppError is the custom error type for the application.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates a validation error for malformed caller input.
func NewValidation(message string) error {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewAuthRequired creates an error for requests with no authenticated actor.
func NewAuthRequired(message string) error {
	return &AppError{Type: ErrorTypeAuthRequired, Message: message}
}

// NewNotFound creates a not found error.
func NewNotFound(message string) error {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewConflict creates a conflict error, typically a version mismatch on write.
func NewConflict(message string) error {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewStoreUnavailable wraps a persistence failure. The core never retries these.
func NewStoreUnavailable(message string, err error) error {
	return &AppError{Type: ErrorTypeStoreUnavailable, Message: message, Err: err}
}

// NewRateLimited wraps an upstream throttling condition. The generation engine
// retries these within its attempt budget before escalating.
func NewRateLimited(message string, err error) error {
	return &AppError{Type: ErrorTypeRateLimited, Message: message, Err: err}
}

// NewGenerationFailed marks a request with no usable generation output after
// the retry budget is spent. Fatal to the current request only.
func NewGenerationFailed(message string, err error) error {
	return &AppError{Type: ErrorTypeGenerationFailed, Message: message, Err: err}
}

// NewInternal creates an internal error.
func NewInternal(message string, err error) error {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// Wrap wraps an error with additional context, preserving the original type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// IsType checks whether err carries the given classification.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func IsValidation(err error) bool       { return IsType(err, ErrorTypeValidation) }
func IsAuthRequired(err error) bool     { return IsType(err, ErrorTypeAuthRequired) }
func IsNotFound(err error) bool         { return IsType(err, ErrorTypeNotFound) }
func IsConflict(err error) bool         { return IsType(err, ErrorTypeConflict) }
func IsStoreUnavailable(err error) bool { return IsType(err, ErrorTypeStoreUnavailable) }
func IsRateLimited(err error) bool      { return IsType(err, ErrorTypeRateLimited) }
func IsGenerationFailed(err error) bool { return IsType(err, ErrorTypeGenerationFailed) }
