// Package apperror defines the error kinds shared by services, middleware and
// handlers. Services return *Error values and callers switch on Kind instead
// of comparing concrete error types.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusiness
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
)

// Error codes sent to clients in the errorCode field.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeBusiness           = "BUSINESS_ERROR"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeUniqueViolation    = "UNIQUE_CONSTRAINT_VIOLATION"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidProfile     = "INVALID_PROFILE"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeServerError        = "SERVER_ERROR"
	CodeNoToken            = "NO_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidUser        = "INVALID_USER"
	CodeJWTConfig          = "JWT_CONFIG_ERROR"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details holds per-field messages for validation failures.
	Details []string
	// Err is the underlying cause; never shown to clients in production.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so sentinel values compare equal to wrapped copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBusiness:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusiness:
		return "business"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

func Validation(details []string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: "Validation failed", Details: details}
}

func Business(message string) *Error {
	return &Error{Kind: KindBusiness, Code: CodeBusiness, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeServerError, Message: "Internal server error", Err: err}
}

// JWTConfig reports a missing signing secret.
func JWTConfig() *Error {
	return &Error{Kind: KindInternal, Code: CodeJWTConfig, Message: "Authentication is not configured on the server"}
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// WithCause returns a copy of e carrying err as its cause.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}
