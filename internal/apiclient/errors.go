package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
	KindConflict
	KindUnreachable
)

// String returns the string representation
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// APIError is returned for any request that did not succeed.
// StatusCode 0 means no response was received.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the server's message, possibly empty.
	Message string
	Cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: server unreachable: %v", e.Method, e.Path, e.Cause)
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s: request failed with status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap returns the transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Kind classifies the error by status code.
func (e *APIError) Kind() Kind {
	switch {
	case e.StatusCode == 0:
		return KindUnreachable
	case e.StatusCode == http.StatusUnauthorized:
		return KindUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return KindForbidden
	case e.StatusCode == http.StatusBadRequest:
		return KindBadRequest
	case e.StatusCode == http.StatusNotFound:
		return KindNotFound
	case e.StatusCode == http.StatusConflict:
		return KindConflict
	default:
		return KindUnknown
	}
}

// DecodeError is returned when a 2xx response body is not the expected JSON.
type DecodeError struct {
	Path  string
	Cause error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.Path, e.Cause)
}

// Unwrap returns the JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// KindOf classifies any error returned by the client.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindUnknown
}

// ServerMessage returns the server-provided message of err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
