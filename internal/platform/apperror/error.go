package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the custom error type for the application.
type AppError struct {
	Code         ErrorCode    // General system-level category (e.g., NOT_FOUND)
	BusinessCode BusinessCode // Specific business reason (e.g., POST_NOT_FOUND)
	Message      string       // Client-facing message, rendered in the response envelope
	HTTPStatus   int          // HTTP status code
	Details      any          // Extra details (e.g., validation errors)
	Inner        error        // Wrapped underlying error
}

func (e *AppError) Error() string { return e.Message }
func (e *AppError) Unwrap() error { return e.Inner }
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError.
func New(code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus}
}

// Wrap creates a new AppError that wraps an existing error.
func Wrap(inner error, code ErrorCode, bizCode BusinessCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, BusinessCode: bizCode, Message: message, HTTPStatus: httpStatus, Inner: inner}
}

// Category helpers. These keep the HTTP status in one place so a service can
// never pick a status that disagrees with the error category.

// Validation creates a 400 validation error.
func Validation(bizCode BusinessCode, message string) *AppError {
	return New(CodeValidationFailed, bizCode, message, http.StatusBadRequest)
}

// Unauthenticated creates a 401 authentication error.
func Unauthenticated(bizCode BusinessCode, message string) *AppError {
	return New(CodeUnauthenticated, bizCode, message, http.StatusUnauthorized)
}

// Forbidden creates a 403 authorization error.
func Forbidden(bizCode BusinessCode, message string) *AppError {
	return New(CodeForbidden, bizCode, message, http.StatusForbidden)
}

// NotFound creates a 404 error.
func NotFound(bizCode BusinessCode, message string) *AppError {
	return New(CodeNotFound, bizCode, message, http.StatusNotFound)
}

// Conflict creates a 409 error for unique-constraint collisions.
func Conflict(bizCode BusinessCode, message string) *AppError {
	return New(CodeConflict, bizCode, message, http.StatusConflict)
}

// Internal creates a 500 error with an opaque client message. The underlying
// cause is wrapped for logs but never rendered to the client.
func Internal(inner error, message string) *AppError {
	return Wrap(inner, CodeInternalError, BusinessCodeGeneral, message, http.StatusInternalServerError)
}

// Is allows errors.Is to work with AppError
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	// Match by both Code and BusinessCode for precise matching
	return e.Code == t.Code && e.BusinessCode == t.BusinessCode
}

// Format implements fmt.Formatter for better error output
func (e *AppError) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			_, _ = fmt.Fprintf(f, "Code: %s, BusinessCode: %s, Message: %s, HTTPStatus: %d",
				e.Code, e.BusinessCode, e.Message, e.HTTPStatus)
			if e.Inner != nil {
				_, _ = fmt.Fprintf(f, "\nCaused by: %+v", e.Inner)
			}
			if e.Details != nil {
				_, _ = fmt.Fprintf(f, "\nDetails: %+v", e.Details)
			}
		} else {
			_, _ = fmt.Fprint(f, e.Message)
		}
	case 's':
		_, _ = fmt.Fprint(f, e.Message)
	}
}
