package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/passwordreset"
	"github.com/evbook/evbook/internal/session"
)

type resetStepMsg struct {
	result session.Result
	err    error
}

// Input indexes of the reset step.
const (
	fieldOTP = iota
	fieldPassword
	fieldConfirm
)

// forgotView runs the two-step password reset.
type forgotView struct {
	env  env
	flow *passwordreset.Flow

	email   textinput.Model
	inputs  []textinput.Model
	focus   int
	notice  string
	pending bool
}

func newForgotView(e env) *forgotView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email: "

	otp := textinput.New()
	otp.Prompt = "Code: "
	otp.Placeholder = "6-digit code"

	pw := textinput.New()
	pw.Prompt = "New password: "
	pw.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Prompt = "Confirm password: "
	confirm.EchoMode = textinput.EchoPassword

	return &forgotView{
		env:    e,
		flow:   passwordreset.New(e.store),
		email:  email,
		inputs: []textinput.Model{otp, pw, confirm},
	}
}

func (v *forgotView) Init() tea.Cmd {
	return v.email.Focus()
}

func (v *forgotView) Busy() bool {
	return v.pending || v.flow.Sending() || v.flow.Resetting()
}

func (v *forgotView) submit() tea.Cmd {
	v.pending = true
	flow := v.flow
	if flow.State() == passwordreset.StateAwaitingEmail {
		flow.SetEmail(strings.TrimSpace(v.email.Value()))
		return v.env.async(func(ctx context.Context) tea.Msg {
			r, err := flow.SubmitEmail(ctx)
			return resetStepMsg{result: r, err: err}
		})
	}

	flow.SetNewPassword(v.inputs[fieldPassword].Value())
	flow.SetConfirmPassword(v.inputs[fieldConfirm].Value())
	return v.env.async(func(ctx context.Context) tea.Msg {
		r, err := flow.SubmitReset(ctx)
		return resetStepMsg{result: r, err: err}
	})
}

func (v *forgotView) setFocus(i int) tea.Cmd {
	v.focus = (i + len(v.inputs)) % len(v.inputs)
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == v.focus {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

func (v *forgotView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case resetStepMsg:
		if errors.Is(msg.err, passwordreset.ErrInFlight) {
			return v, nil
		}
		v.pending = false
		v.notice = ""
		if v.flow.Done() {
			return v, tea.Batch(notifyResult(msg.result), goToAfter(guard.PathLogin, v.env.opts.NavigateDelay, v.env.mount))
		}
		if msg.result.Success && v.flow.State() == passwordreset.StateAwaitingOTP {
			v.email.Blur()
			v.notice = "Code sent to " + v.flow.Email()
			return v, tea.Batch(notifyResult(msg.result), v.setFocus(fieldOTP))
		}
		return v, notifyResult(msg.result)

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *forgotView) handleKey(msg tea.KeyMsg) (view, tea.Cmd) {
	if v.flow.Done() {
		return v, nil
	}
	awaitingOTP := v.flow.State() == passwordreset.StateAwaitingOTP

	switch {
	case key.Matches(msg, keys.Select):
		if v.Busy() {
			return v, nil
		}
		return v, v.submit()

	case key.Matches(msg, keys.Back):
		if awaitingOTP && v.flow.Back() {
			for i := range v.inputs {
				v.inputs[i].SetValue("")
				v.inputs[i].Blur()
			}
			v.notice = ""
			return v, v.email.Focus()
		}
		if !awaitingOTP {
			return v, goTo(guard.PathLogin)
		}
		return v, nil

	case awaitingOTP && msg.String() == "tab":
		return v, v.setFocus(v.focus + 1)

	case awaitingOTP && msg.String() == "shift+tab":
		return v, v.setFocus(v.focus - 1)
	}

	var cmd tea.Cmd
	if !awaitingOTP {
		v.email, cmd = v.email.Update(msg)
		return v, cmd
	}

	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	if v.focus == fieldOTP {
		raw := v.inputs[fieldOTP].Value()
		if clean := v.flow.SetOTP(raw); clean != raw {
			v.inputs[fieldOTP].SetValue(clean)
		}
	}
	return v, cmd
}

func (v *forgotView) View() string {
	s := v.env.styles
	var b strings.Builder
	b.WriteString(s.Status.Render("Forgot password"))
	b.WriteString("\n\n")

	if v.flow.State() == passwordreset.StateAwaitingEmail {
		b.WriteString("Enter your account email and we'll send you a one-time code.\n\n")
		b.WriteString(v.email.View())
		b.WriteString("\n")
		b.WriteString(s.Help.Render("enter send code • esc back to login"))
		return b.String()
	}

	if v.notice != "" {
		b.WriteString(s.Muted.Render(v.notice))
		b.WriteString("\n\n")
	}
	for _, in := range v.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("tab next field • enter reset password • esc change email"))
	return b.String()
}
