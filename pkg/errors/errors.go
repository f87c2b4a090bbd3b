// Package errors defines the typed error values returned by the permission
// SDK. Every public operation fails with exactly one of the kinds below;
// cache-layer failures (CodeCacheUnavailable) are internal and are never
// surfaced to application code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code identifies the error kind.
type Code string

const (
	// CodeConfiguration indicates the SDK was constructed with invalid configuration.
	CodeConfiguration Code = "configuration_error"
	// CodeAuthentication indicates the API key was missing, invalid, or expired.
	CodeAuthentication Code = "authentication_failure"
	// CodeValidation indicates the service or the client rejected a request field.
	CodeValidation Code = "validation_failure"
	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict indicates the operation conflicts with existing state,
	// e.g. changing the window type of an existing resource limit.
	CodeConflict Code = "conflict"
	// CodeRateLimited indicates the service throttled the caller.
	CodeRateLimited Code = "rate_limited"
	// CodeTimeout indicates the request exceeded the configured timeout.
	CodeTimeout Code = "timeout"
	// CodeUnreachable indicates a network-level failure reaching the service.
	CodeUnreachable Code = "network_unreachable"
	// CodeServerFault indicates the service itself failed (HTTP 5xx).
	CodeServerFault Code = "server_fault"
	// CodeCacheUnavailable is internal: the cache backend failed. The SDK
	// absorbs it and degrades to a miss; callers never observe this kind.
	CodeCacheUnavailable Code = "cache_unavailable"
)

// Error is the structured error type returned by every SDK operation.
type Error struct {
	code       Code
	httpStatus int
	message    string
	cause      error
	metadata   map[string]interface{}
}

// New creates an Error with the given kind, HTTP status, and message.
func New(code Code, httpStatus int, message string) *Error {
	return &Error{
		code:       code,
		httpStatus: httpStatus,
		message:    message,
		metadata:   make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Code returns the error kind.
func (e *Error) Code() Code { return e.code }

// HTTPStatus returns the HTTP status the service responded with, or 0 for
// errors raised before a response was received.
func (e *Error) HTTPStatus() int { return e.httpStatus }

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// WithMetadata attaches a key-value pair of additional context.
func (e *Error) WithMetadata(key string, value interface{}) *Error {
	e.metadata[key] = value
	return e
}

// Metadata returns all attached metadata.
func (e *Error) Metadata() map[string]interface{} { return e.metadata }

// ================================================================================
// Constructors
// ================================================================================

// ErrConfiguration reports invalid SDK configuration.
func ErrConfiguration(message string) *Error {
	return New(CodeConfiguration, 0, message)
}

// ErrAuthentication reports an authentication failure (HTTP 401).
func ErrAuthentication(message string) *Error {
	return New(CodeAuthentication, http.StatusUnauthorized, message)
}

// ErrValidation reports a request validation failure (HTTP 400). field names
// the offending request field when known.
func ErrValidation(message, field string) *Error {
	e := New(CodeValidation, http.StatusBadRequest, message)
	if field != "" {
		e.WithMetadata("field", field)
	}
	return e
}

// ErrNotFound reports a missing resource (HTTP 404).
func ErrNotFound(message, resourceType string) *Error {
	e := New(CodeNotFound, http.StatusNotFound, message)
	if resourceType != "" {
		e.WithMetadata("resource_type", resourceType)
	}
	return e
}

// ErrConflict reports a state conflict (HTTP 409). Conflicts are never
// retried automatically; they are not transient.
func ErrConflict(message string) *Error {
	return New(CodeConflict, http.StatusConflict, message)
}

// ErrRateLimited reports throttling (HTTP 429). retryAfter is zero when the
// service did not send a Retry-After header.
func ErrRateLimited(message string, retryAfter time.Duration) *Error {
	e := New(CodeRateLimited, http.StatusTooManyRequests, message)
	if retryAfter > 0 {
		e.WithMetadata("retry_after", retryAfter.String())
	}
	return e
}

// ErrTimeout reports a request that exceeded its deadline.
func ErrTimeout(message string, elapsed time.Duration) *Error {
	return New(CodeTimeout, 0, message).WithMetadata("elapsed", elapsed.String())
}

// ErrUnreachable reports a network-level connection failure.
func ErrUnreachable(message string) *Error {
	return New(CodeUnreachable, 0, message)
}

// ErrServerFault reports a service-side failure (HTTP 5xx).
func ErrServerFault(message string, httpStatus int) *Error {
	if httpStatus < http.StatusInternalServerError {
		httpStatus = http.StatusInternalServerError
	}
	return New(CodeServerFault, httpStatus, message)
}

// ErrCacheUnavailable reports a cache backend failure. Internal only.
func ErrCacheUnavailable(message string) *Error {
	return New(CodeCacheUnavailable, 0, message)
}

// ================================================================================
// Predicates
// ================================================================================

// CodeOf extracts the Code from err, or "" if err is not an SDK error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool { return CodeOf(err) == CodeAuthentication }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsConflict reports whether err is a state conflict.
func IsConflict(err error) bool { return CodeOf(err) == CodeConflict }

// IsRateLimited reports whether err is a throttling failure.
func IsRateLimited(err error) bool { return CodeOf(err) == CodeRateLimited }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return CodeOf(err) == CodeTimeout }

// IsUnreachable reports whether err is a network-level failure.
func IsUnreachable(err error) bool { return CodeOf(err) == CodeUnreachable }

// IsServerFault reports whether err is a service-side failure.
func IsServerFault(err error) bool { return CodeOf(err) == CodeServerFault }

// IsTransient reports whether err may succeed on retry. Conflicts and
// validation failures are deliberately excluded.
func IsTransient(err error) bool {
	switch CodeOf(err) {
	case CodeRateLimited, CodeTimeout, CodeUnreachable, CodeServerFault:
		return true
	}
	return false
}

// RetryAfter returns the Retry-After hint carried by a rate-limit error,
// or 0 when none was provided.
func RetryAfter(err error) time.Duration {
	var e *Error
	if !errors.As(err, &e) || e.code != CodeRateLimited {
		return 0
	}
	if v, ok := e.metadata["retry_after"].(string); ok {
		if d, parseErr := time.ParseDuration(v); parseErr == nil {
			return d
		}
	}
	return 0
}
