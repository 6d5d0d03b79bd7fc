package session

import (
	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/domain"
	evberrors "github.com/evbook/evbook/internal/errors"
)

// Kind classifies why an operation failed.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindUnauthenticated
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
	KindUnreachable
	KindStorage
	KindUnknown
)

// String returns the string representation
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindUnreachable:
		return "unreachable"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Result is the outcome of a store operation. Operations never return a
// transport error; everything the view needs is in here.
type Result struct {
	Success           bool
	Message           string
	Kind              Kind
	Principal         *domain.Principal
	NeedsVerification bool
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func fail(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}

// Err converts a failed result into a coded error, or nil on success.
func (r Result) Err() error {
	if r.Success {
		return nil
	}

	code := evberrors.ErrCodeAPIFailure
	switch r.Kind {
	case KindValidation:
		code = evberrors.ErrCodeValidation
	case KindUnauthenticated:
		return evberrors.NewLoginRequiredError()
	case KindUnauthorized:
		code = evberrors.ErrCodeInvalidCredentials
	case KindForbidden:
		code = evberrors.ErrCodeForbidden
	case KindBadRequest:
		code = evberrors.ErrCodeBadRequest
	case KindNotFound:
		code = evberrors.ErrCodeNotFound
	case KindUnreachable:
		code = evberrors.ErrCodeUnreachable
	case KindStorage:
		code = evberrors.ErrCodeStorageWrite
	}
	return evberrors.New(code, r.Message)
}

func kindFromAPI(k apiclient.Kind) Kind {
	switch k {
	case apiclient.KindUnauthorized:
		return KindUnauthorized
	case apiclient.KindForbidden:
		return KindForbidden
	case apiclient.KindBadRequest:
		return KindBadRequest
	case apiclient.KindNotFound:
		return KindNotFound
	case apiclient.KindUnreachable:
		return KindUnreachable
	default:
		return KindUnknown
	}
}
