package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeInvalidCredentials ErrorCode = "AUTH-001"
	ErrCodeForbidden          ErrorCode = "AUTH-002"
	ErrCodeLoginRequired      ErrorCode = "AUTH-003"
	ErrCodeAdminRequired      ErrorCode = "AUTH-004"
	ErrCodeSessionExpired     ErrorCode = "AUTH-005"

	// Remote API errors (API-001 to API-099)
	ErrCodeBadRequest   ErrorCode = "API-001"
	ErrCodeUnreachable  ErrorCode = "API-002"
	ErrCodeAPIFailure   ErrorCode = "API-003"
	ErrCodeNotFound     ErrorCode = "API-004"
	ErrCodeDecodeFailed ErrorCode = "API-005"

	// Client-side validation errors (VALID-001 to VALID-099)
	ErrCodeValidation ErrorCode = "VALID-001"

	// Local storage errors (STORE-001 to STORE-099)
	ErrCodeStorageRead  ErrorCode = "STORE-001"
	ErrCodeStorageWrite ErrorCode = "STORE-002"
	ErrCodeStorageOpen  ErrorCode = "STORE-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigLoad    ErrorCode = "CONFIG-002"
)

// Category returns the prefix of the code, e.g. "AUTH" for "AUTH-001".
func (c ErrorCode) Category() string {
	s := string(c)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// EvbookError represents an enhanced error with code, suggestions, and documentation
type EvbookError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *EvbookError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *EvbookError) Unwrap() error {
	return e.Cause
}

// New creates a new EvbookError
func New(code ErrorCode, message string) *EvbookError {
	return &EvbookError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new EvbookError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *EvbookError {
	return &EvbookError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *EvbookError) WithSuggestion(suggestion string) *EvbookError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *EvbookError) WithSuggestions(suggestions ...string) *EvbookError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *EvbookError) WithDocs(url string) *EvbookError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first EvbookError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *EvbookError
	if stderrors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// Common error constructors for frequently used errors

// NewLoginRequiredError is returned when a command needs a signed-in user.
func NewLoginRequiredError() *EvbookError {
	return New(ErrCodeLoginRequired, "please login to continue").
		WithSuggestion("Run 'evbook login --email you@example.com'").
		WithSuggestion("Run 'evbook status' to see who is signed in")
}

// NewAdminRequiredError is returned when a command needs an administrative role.
func NewAdminRequiredError() *EvbookError {
	return New(ErrCodeAdminRequired, "administrator access required").
		WithSuggestion("Login with an administrator account: 'evbook login --admin'")
}

// NewSessionExpiredError is returned after the API rejected the stored token.
func NewSessionExpiredError() *EvbookError {
	return New(ErrCodeSessionExpired, "your session has expired").
		WithSuggestion("Login again: 'evbook login'")
}

// NewValidationError wraps a client-side validation message.
func NewValidationError(message string) *EvbookError {
	return New(ErrCodeValidation, message)
}

// NewUnreachableError creates a connectivity error for the given API URL.
func NewUnreachableError(apiURL string, cause error) *EvbookError {
	return Wrap(ErrCodeUnreachable, "cannot connect to server", cause).
		WithSuggestion("Check your network connection").
		WithSuggestion(fmt.Sprintf("Verify the API URL (%s) or set EVBOOK_API_URL", apiURL)).
		WithSuggestion("Start a local sandbox with 'evbook sandbox' for offline use")
}

// NewStorageWriteError creates an error for a failed session write.
func NewStorageWriteError(path string, cause error) *EvbookError {
	return Wrap(ErrCodeStorageWrite, fmt.Sprintf("failed to write session storage: %s", path), cause).
		WithSuggestion("Check that the storage directory exists and is writable").
		WithSuggestion("Use --storage-driver memory to run without persistence")
}

// NewConfigInvalidError creates a configuration validation error.
func NewConfigInvalidError(details string) *EvbookError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'evbook config show' to inspect the effective configuration").
		WithSuggestion("Check ~/.evbook/config.yaml and EVBOOK_* environment variables")
}
