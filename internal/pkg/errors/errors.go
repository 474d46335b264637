package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and decides its HTTP status.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindUpstream      Kind = "upstream"
	KindConfiguration Kind = "configuration"
	KindInternal      Kind = "internal"
)

// Sentinels for errors.Is checks against a whole kind.
var (
	ErrValidation    = &AppError{Kind: KindValidation, Message: "invalid request"}
	ErrAuthorization = &AppError{Kind: KindAuthorization, Message: "unauthorized"}
	ErrNotFound      = &AppError{Kind: KindNotFound, Message: "not found"}
	ErrUpstream      = &AppError{Kind: KindUpstream, Message: "upstream service failed"}
	ErrConfiguration = &AppError{Kind: KindConfiguration, Message: "service is not configured"}
	ErrInternal      = &AppError{Kind: KindInternal, Message: "internal server error"}
)

// AppError is the error type returned by services and rendered by the API layer.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
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

// Is matches any AppError of the same kind, so callers can test against the sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newf(kind Kind, cause error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Validation(format string, args ...any) *AppError {
	return newf(KindValidation, nil, format, args...)
}

func Unauthorized(format string, args ...any) *AppError {
	return newf(KindAuthorization, nil, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return newf(KindNotFound, nil, format, args...)
}

func Configuration(format string, args ...any) *AppError {
	return newf(KindConfiguration, nil, format, args...)
}

// Upstream wraps a failure of the document store, job queue or messaging gateway.
func Upstream(cause error, format string, args ...any) *AppError {
	return newf(KindUpstream, cause, format, args...)
}

func Internal(cause error, format string, args ...any) *AppError {
	return newf(KindInternal, cause, format, args...)
}

// As extracts the AppError from err, falling back to an internal error.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err, "internal server error")
}
