// Package errors provides the error taxonomy shared by the store, the ledger
// synchronizer and the HTTP layer. Every failure surfaced to a client is an
// AppError carrying a machine-readable code and a human message; internal
// causes are kept for logging and never serialized.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation returns a VALIDATION_ERROR naming the offending field.
func Validation(message string) *AppError {
	return WithMessage(ErrValidation, message)
}

// Kind returns the machine code of err. Errors that are not AppErrors are
// reported as STORE_ERROR since they can only originate from the backend.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrStore.Code
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "AUTH_ERROR", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// Request errors.
var (
	ErrValidation   = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrDuplicateID  = &AppError{Code: "DUPLICATE_ID", Message: "A record with this id already exists", StatusCode: http.StatusConflict}
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// User errors.
var (
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Storage errors. ErrSchemaMissing is only surfaced after the single
// self-healing migrator retry has failed.
var (
	ErrSchemaMissing = &AppError{Code: "SCHEMA_MISSING", Message: "Database schema is not up to date", StatusCode: http.StatusInternalServerError}
	ErrStore         = &AppError{Code: "STORE_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)
