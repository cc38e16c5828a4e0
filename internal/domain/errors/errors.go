// Package errors defines the application error taxonomy: typed errors carrying
// an HTTP status, a business error code and a user-facing message.
package errors

import (
	"net/http"

	"konv/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Field constraint violated: bounds, required field, enum membership.
	ErrValidation = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_ERROR",
		"input validation failed",
		"",
	)

	// Illegal lifecycle transition on an order or payment.
	ErrInvalidState = NewBaseError(
		http.StatusConflict,
		"INVALID_STATE",
		"operation not allowed in the current state",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)

	// Payment provider unreachable or rejected the collection request. The
	// payment row stays pending so the caller can retry.
	ErrGateway = NewBaseError(
		http.StatusBadGateway,
		"GATEWAY_ERROR",
		"payment gateway request failed",
		"",
	)

	// Webhook payload missing the correlation key or structurally invalid.
	ErrMalformedWebhook = NewBaseError(
		http.StatusBadRequest,
		"MALFORMED_WEBHOOK",
		"webhook payload is malformed",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"this phone number is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"phone number or password is incorrect",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"invalid or expired refresh token",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"password processing failed",
		"",
	)

	ErrDatabase = NewBaseError(
		http.StatusInternalServerError,
		"DATABASE_ERROR",
		"database operation failed",
		"",
	)
)

// NewDatabaseExecuteError wraps a raw database error with context.
func NewDatabaseExecuteError(err error, message string) error {
	return errors.Wrap(ErrDatabase.WithDetails(err.Error()), message)
}
