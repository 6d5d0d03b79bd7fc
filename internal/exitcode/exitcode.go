// Package exitcode maps command errors to process exit statuses so scripts
// can tell a bad password from a dead server.
package exitcode

import (
	"context"
	"errors"
	"os"
	"strings"

	evberrors "github.com/evbook/evbook/internal/errors"
)

const (
	Success      = 0
	GeneralError = 1
	// UsageError covers bad flags, unknown commands and invalid config.
	UsageError = 2
	// ValidationError means the input was rejected, either locally or by
	// the API with a 400.
	ValidationError = 3
	// ForbiddenError means the account is blocked, unverified or lacks the role.
	ForbiddenError = 4
	// AuthError means there is no usable session or the credentials were wrong.
	AuthError    = 5
	NetworkError = 6
	// Interrupted follows the shell convention of 128+SIGINT.
	Interrupted = 130
)

var descriptions = map[int]string{
	Success:         "Success",
	GeneralError:    "General error",
	UsageError:      "Usage error (invalid flags or arguments)",
	ValidationError: "Validation error",
	ForbiddenError:  "Access denied",
	AuthError:       "Authentication error",
	NetworkError:    "Network error",
	Interrupted:     "Interrupted",
}

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with the code DetermineExitCode picks for err.
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode picks an exit code for err. Coded errors map by code;
// other errors, mostly from cobra and the network stack, by their text.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}
	if code, ok := evberrors.CodeOf(err); ok {
		return fromCode(code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkError
	}

	msg := strings.ToLower(err.Error())
	for _, r := range messageRules {
		for _, needle := range r.needles {
			if strings.Contains(msg, needle) {
				return r.code
			}
		}
	}
	return GeneralError
}

// Checked in order.
var messageRules = []struct {
	code    int
	needles []string
}{
	{AuthError, []string{"unauthorized", "invalid credentials", "please login", "session has expired"}},
	{ForbiddenError, []string{"forbidden", "blocked"}},
	{NetworkError, []string{"network", "connection", "timeout", "unreachable"}},
	{UsageError, []string{"invalid flag", "unknown command", "unknown flag", "required flag", "missing argument", "accepts "}},
}

func fromCode(code evberrors.ErrorCode) int {
	switch code {
	case evberrors.ErrCodeForbidden, evberrors.ErrCodeAdminRequired:
		return ForbiddenError
	case evberrors.ErrCodeUnreachable:
		return NetworkError
	case evberrors.ErrCodeValidation, evberrors.ErrCodeBadRequest:
		return ValidationError
	case evberrors.ErrCodeConfigInvalid:
		return UsageError
	}
	if code.Category() == "AUTH" {
		return AuthError
	}
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "Unknown error"
}
