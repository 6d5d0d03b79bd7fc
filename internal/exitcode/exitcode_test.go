package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	evberrors "github.com/evbook/evbook/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"invalid credentials", evberrors.New(evberrors.ErrCodeInvalidCredentials, "Invalid credentials."), AuthError},
		{"login required wrapped", fmt.Errorf("bookings: %w", evberrors.NewLoginRequiredError()), AuthError},
		{"session expired", evberrors.NewSessionExpiredError(), AuthError},
		{"admin required", evberrors.NewAdminRequiredError(), ForbiddenError},
		{"blocked account", evberrors.New(evberrors.ErrCodeForbidden, "Your account is blocked"), ForbiddenError},
		{"validation", evberrors.NewValidationError("Passwords do not match"), ValidationError},
		{"bad request", evberrors.New(evberrors.ErrCodeBadRequest, "Only pending bookings can be cancelled"), ValidationError},
		{"unreachable", evberrors.NewUnreachableError("http://localhost:5050/api", nil), NetworkError},
		{"storage", evberrors.New(evberrors.ErrCodeStorageWrite, "disk full"), GeneralError},
		{"config", evberrors.NewConfigInvalidError("bad"), UsageError},
		{"deadline", fmt.Errorf("list stations: %w", context.DeadlineExceeded), NetworkError},
		{"unauthorized text", errors.New("401 unauthorized"), AuthError},
		{"blocked text", errors.New("account blocked"), ForbiddenError},
		{"connection refused", errors.New("dial tcp: connection refused"), NetworkError},
		{"unknown command", errors.New(`unknown command "foo" for "evbook"`), UsageError},
		{"required flag", errors.New(`required flag(s) "email" not set`), UsageError},
		{"arg count", errors.New("accepts 1 arg(s), received 0"), UsageError},
		{"anything else", errors.New("something went wrong"), GeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	assert.Equal(t, "Access denied", GetExitCodeDescription(ForbiddenError))
	assert.Equal(t, "Interrupted", GetExitCodeDescription(Interrupted))
	assert.Equal(t, "Unknown error", GetExitCodeDescription(42))
	assert.Equal(t, 130, Interrupted)
}
