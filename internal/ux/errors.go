package ux

import (
	"errors"
	"fmt"
	"strings"

	evberrors "github.com/evbook/evbook/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds contextual suggestions
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	// Coded errors carry their own suggestions
	var coded *evberrors.EvbookError
	if errors.As(err, &coded) && len(coded.Suggestions) > 0 {
		return err
	}
	var withSuggestion *ErrorWithSuggestion
	if errors.As(err, &withSuggestion) {
		return err
	}

	if code, ok := evberrors.CodeOf(err); ok {
		switch code {
		case evberrors.ErrCodeLoginRequired, evberrors.ErrCodeSessionExpired, evberrors.ErrCodeInvalidCredentials:
			return NewErrorWithSuggestion(err, "Sign in with 'evbook login'")
		case evberrors.ErrCodeAdminRequired:
			return NewErrorWithSuggestion(err, "Sign in with an administrator account: 'evbook login --admin'")
		case evberrors.ErrCodeUnreachable:
			return NewErrorWithSuggestion(err,
				"Check --api-url (or EVBOOK_API_URL), or start a local API with 'evbook sandbox'")
		}
	}

	msg := strings.ToLower(err.Error())
	for _, h := range hints {
		if h.matches(msg) {
			return NewErrorWithSuggestion(err, h.suggestion)
		}
	}
	return err
}

// hint attaches a suggestion to errors whose text contains every one of
// all and at least one of any (when any is set).
type hint struct {
	all        []string
	any        []string
	suggestion string
}

func (h hint) matches(msg string) bool {
	for _, s := range h.all {
		if !strings.Contains(msg, s) {
			return false
		}
	}
	if len(h.any) == 0 {
		return true
	}
	for _, s := range h.any {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Checked in order; the first match wins.
var hints = []hint{
	{
		any:        []string{"connection refused", "no route to host", "server unreachable"},
		suggestion: "Check your network connection and that the API URL is correct",
	},
	{
		any:        []string{"account blocked", "not been verified"},
		suggestion: "Verify your email with 'evbook verify-email <token>' or contact an administrator",
	},
	{
		all:        []string{"otp"},
		any:        []string{"invalid", "expired"},
		suggestion: "Request a new code with 'evbook password request --email <address>'",
	},
	{
		all:        []string{"permission denied"},
		suggestion: "Check permissions on ~/.evbook or choose another location with --storage-path",
	},
	{
		all:        []string{"database is locked"},
		suggestion: "Another evbook process is using the session database; close it and try again",
	},
	{
		all:        []string{"config", "failed"},
		suggestion: "Inspect the effective configuration with 'evbook config show'",
	},
}
