// Package errors provides application-level error types and utilities.
// It defines the error taxonomy shared by the persistence gateway, the
// websocket transport, and the sync orchestrator.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypePersistence ErrorType = "persistence_error"
	ErrorTypeTransport   ErrorType = "transport_error"
	ErrorTypeSync        ErrorType = "sync_error"
	ErrorTypeValidation  ErrorType = "validation_error"
)

// PersistenceKind narrows a persistence error to its cause.
type PersistenceKind string

const (
	PersistenceIO         PersistenceKind = "io"
	PersistenceConstraint PersistenceKind = "constraint"
	PersistenceNotFound   PersistenceKind = "not_found"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType       `json:"type"`
	Kind    PersistenceKind `json:"kind,omitempty"`
	Message string          `json:"message"`
	Details string          `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewPersistenceError creates a persistence error of the given kind.
func NewPersistenceError(kind PersistenceKind, message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistence,
		Kind:    kind,
		Message: message,
		cause:   cause,
	}
}

// NewTransportError creates a transport error.
func NewTransportError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		cause:   cause,
	}
}

// NewSyncError creates a sync error for a failed remote push or pull.
func NewSyncError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeSync,
		Message: message,
		cause:   cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: detail,
		cause:   cause,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsNotFound reports whether err is a persistence not-found error.
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypePersistence && appErr.Kind == PersistenceNotFound
	}
	return false
}

// IsSyncError reports whether err is a sync error.
func IsSyncError(err error) bool {
	return IsType(err, ErrorTypeSync)
}

// IsTransportError reports whether err is a transport error.
func IsTransportError(err error) bool {
	return IsType(err, ErrorTypeTransport)
}
