package cmd

import (
	"errors"
	"strings"

	"github.com/evbook/evbook/internal/apiclient"
	evberrors "github.com/evbook/evbook/internal/errors"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/validate"
)

// apiFailure turns a client error into a coded error. A 401 on a request
// that carried the stored token has already cleared the session.
func (cc *CommandContext) apiFailure(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if cc.nav.expired {
		return evberrors.NewSessionExpiredError()
	}

	msg := apiclient.ServerMessage(err)
	if msg == "" {
		msg = fallback
	}

	switch apiclient.KindOf(err) {
	case apiclient.KindUnreachable:
		return evberrors.NewUnreachableError(cc.Client.BaseURL(), err)
	case apiclient.KindUnauthorized:
		return evberrors.New(evberrors.ErrCodeInvalidCredentials, msg)
	case apiclient.KindForbidden:
		return evberrors.New(evberrors.ErrCodeForbidden, msg)
	case apiclient.KindBadRequest:
		return evberrors.New(evberrors.ErrCodeBadRequest, msg)
	case apiclient.KindNotFound:
		return evberrors.New(evberrors.ErrCodeNotFound, msg)
	}

	var decodeErr *apiclient.DecodeError
	if errors.As(err, &decodeErr) {
		return evberrors.Wrap(evberrors.ErrCodeDecodeFailed, "unexpected response from server", err)
	}
	return evberrors.Wrap(evberrors.ErrCodeAPIFailure, fallback, err)
}

// resultErr converts a failed store result, reporting expiry first.
func (cc *CommandContext) resultErr(r session.Result) error {
	if r.Success {
		return nil
	}
	if cc.nav.expired {
		return evberrors.NewSessionExpiredError()
	}
	return r.Err()
}

// invalid validates form and returns a coded validation error.
func invalid(form any) error {
	if err := validate.Struct(form); err != nil {
		return evberrors.NewValidationError(err.Error())
	}
	return nil
}

func requireArg(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return evberrors.NewValidationError("missing argument: " + name)
	}
	return nil
}
