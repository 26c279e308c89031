// Package errors defines the structured application error used across services and handlers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeConflict     ErrorCode = "conflict"
	ErrCodeValidation   ErrorCode = "validation"
	ErrCodeForeignKey   ErrorCode = "foreign_key"
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	ErrCodeForbidden    ErrorCode = "forbidden"
	ErrCodeInternal     ErrorCode = "internal"
	ErrCodeTimeout      ErrorCode = "timeout"
	ErrCodeCanceled     ErrorCode = "canceled"
)

// AppError is an error with a code, a user-facing message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the offending input for validation errors.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newf(code ErrorCode, format string, args ...any) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Code: code, Message: msg}
}

// NotFound creates a NotFound error.
func NotFound(message string) *AppError { return newf(ErrCodeNotFound, "%s", message) }

// NotFoundf creates a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) *AppError { return newf(ErrCodeNotFound, format, args...) }

// Conflict creates a Conflict error.
func Conflict(message string) *AppError { return newf(ErrCodeConflict, "%s", message) }

// Validation creates a Validation error.
func Validation(message string) *AppError { return newf(ErrCodeValidation, "%s", message) }

// Validationf creates a Validation error with a formatted message.
func Validationf(format string, args ...any) *AppError {
	return newf(ErrCodeValidation, format, args...)
}

// ValidationField creates a Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	e := newf(ErrCodeValidation, "%s", message)
	e.Field = field
	return e
}

// Unauthorized reports a missing or rejected authentication.
func Unauthorized(message string) *AppError { return newf(ErrCodeUnauthorized, "%s", message) }

// Forbidden reports an authenticated caller whose role is insufficient.
func Forbidden(message string) *AppError { return newf(ErrCodeForbidden, "%s", message) }

// Internal creates an Internal error.
func Internal(message string) *AppError { return newf(ErrCodeInternal, "%s", message) }

// Wrap wraps err with an AppError, preserving the cause. A nil err returns nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool     { return isCode(err, ErrCodeNotFound) }
func IsConflict(err error) bool     { return isCode(err, ErrCodeConflict) }
func IsValidation(err error) bool   { return isCode(err, ErrCodeValidation) }
func IsUnauthorized(err error) bool { return isCode(err, ErrCodeUnauthorized) }
func IsForbidden(err error) bool    { return isCode(err, ErrCodeForbidden) }

// GetCode returns the ErrorCode of err, or "" when err is not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of err, or "" when absent.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
