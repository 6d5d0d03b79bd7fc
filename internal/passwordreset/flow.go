// Package passwordreset drives the two-step password reset: request a
// one-time code by email, then submit it with a new password.
package passwordreset

import (
	"context"
	"errors"
	"sync"

	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/validate"
)

// ErrInFlight is returned when a step is submitted while its request is
// still outstanding.
var ErrInFlight = errors.New("request already in progress")

// State is the phase of the flow.
type State int

const (
	// StateAwaitingEmail collects the account email.
	StateAwaitingEmail State = iota
	// StateAwaitingOTP collects the code and the new password.
	StateAwaitingOTP
)

// String returns the string representation
func (s State) String() string {
	switch s {
	case StateAwaitingEmail:
		return "awaiting_email"
	case StateAwaitingOTP:
		return "awaiting_otp"
	default:
		return "unknown"
	}
}

// Service performs the reset requests. *session.Store satisfies it.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) session.Result
	ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) session.Result
}

// Flow holds the form state of one reset attempt. It is safe for use from
// concurrent goroutines.
type Flow struct {
	svc Service

	mu        sync.Mutex
	state     State
	email     string
	otp       string
	password  string
	confirm   string
	sending   bool
	resetting bool
	done      bool
	message   string
}

// New starts a flow awaiting the email.
func New(svc Service) *Flow {
	return &Flow{svc: svc}
}

// State returns the current phase.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the entered email.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// OTP returns the sanitized code.
func (f *Flow) OTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otp
}

// Sending reports whether the code request is in flight.
func (f *Flow) Sending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sending
}

// Resetting reports whether the reset request is in flight.
func (f *Flow) Resetting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetting
}

// Done reports whether the password was reset.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Message returns the last outcome message.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// SetEmail sets the account email.
func (f *Flow) SetEmail(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = v
}

// SetOTP keeps the digits of v, at most six, and returns what was kept.
func (f *Flow) SetOTP(v string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otp = validate.SanitizeOTP(v)
	return f.otp
}

// SetNewPassword sets the new password.
func (f *Flow) SetNewPassword(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = v
}

// SetConfirmPassword sets the password confirmation.
func (f *Flow) SetConfirmPassword(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirm = v
}

// SubmitEmail requests a code. On success the flow awaits the code; on
// failure it stays where it is and keeps the message.
func (f *Flow) SubmitEmail(ctx context.Context) (session.Result, error) {
	f.mu.Lock()
	if f.sending {
		f.mu.Unlock()
		return session.Result{}, ErrInFlight
	}
	if err := validate.Struct(validate.ResetRequestForm{Email: f.email}); err != nil {
		f.message = err.Error()
		f.mu.Unlock()
		return session.Result{Kind: session.KindValidation, Message: err.Error()}, nil
	}
	f.sending = true
	email := f.email
	f.mu.Unlock()

	r := f.svc.RequestPasswordReset(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sending = false
	f.message = r.Message
	if r.Success {
		f.state = StateAwaitingOTP
	}
	return r, nil
}

// SubmitReset sends the code and the new password in one request.
func (f *Flow) SubmitReset(ctx context.Context) (session.Result, error) {
	f.mu.Lock()
	if f.resetting {
		f.mu.Unlock()
		return session.Result{}, ErrInFlight
	}
	if f.state != StateAwaitingOTP {
		f.mu.Unlock()
		return session.Result{Kind: session.KindValidation, Message: "Please request a code first"}, nil
	}
	form := validate.ResetConfirmForm{
		Email:           f.email,
		OTP:             f.otp,
		NewPassword:     f.password,
		ConfirmPassword: f.confirm,
	}
	if err := validate.Struct(form); err != nil {
		f.message = err.Error()
		f.mu.Unlock()
		return session.Result{Kind: session.KindValidation, Message: err.Error()}, nil
	}
	f.resetting = true
	f.mu.Unlock()

	r := f.svc.ConfirmPasswordReset(ctx, form.Email, form.OTP, form.NewPassword)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetting = false
	f.message = r.Message
	if r.Success {
		f.done = true
	}
	return r, nil
}

// Back returns to the email step, clearing the code and passwords. It is a
// no-op while the reset request is in flight.
func (f *Flow) Back() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateAwaitingOTP || f.resetting {
		return false
	}
	f.state = StateAwaitingEmail
	f.otp = ""
	f.password = ""
	f.confirm = ""
	f.message = ""
	return true
}
