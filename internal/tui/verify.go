package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/session"
)

type verifyDoneMsg struct {
	result session.Result
}

// verifyView confirms an email address with the token from the link.
type verifyView struct {
	env      env
	token    textinput.Model
	busy     bool
	verified bool
	status   string
	auto     bool
}

func newVerifyView(e env, token string) *verifyView {
	in := textinput.New()
	in.Prompt = "Token: "
	in.Placeholder = "paste the token from your verification email"
	in.SetValue(token)
	return &verifyView{env: e, token: in, auto: strings.TrimSpace(token) != ""}
}

func (v *verifyView) Init() tea.Cmd {
	if v.auto {
		return tea.Batch(v.token.Focus(), v.submit())
	}
	return v.token.Focus()
}

func (v *verifyView) Busy() bool { return v.busy }

func (v *verifyView) submit() tea.Cmd {
	v.busy = true
	v.status = "Verifying your email..."
	token, store := v.token.Value(), v.env.store
	return v.env.async(func(ctx context.Context) tea.Msg {
		return verifyDoneMsg{result: store.VerifyEmail(ctx, token)}
	})
}

func (v *verifyView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case verifyDoneMsg:
		v.busy = false
		v.status = msg.result.Message
		if msg.result.Success {
			v.verified = true
			return v, tea.Batch(notifyResult(msg.result), goToAfter(guard.PathLogin, v.env.opts.NavigateDelay, v.env.mount))
		}
		return v, notifyResult(msg.result)

	case tea.KeyMsg:
		if v.busy || v.verified {
			return v, nil
		}
		switch {
		case key.Matches(msg, keys.Select):
			return v, v.submit()
		case key.Matches(msg, keys.Back):
			return v, goTo(guard.PathHome)
		}
		var cmd tea.Cmd
		v.token, cmd = v.token.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *verifyView) View() string {
	s := v.env.styles
	var b strings.Builder
	b.WriteString(s.Status.Render("Verify email"))
	b.WriteString("\n\n")
	if !v.verified {
		b.WriteString(v.token.View())
		b.WriteString("\n")
	}
	if v.status != "" {
		style := s.Muted
		if v.verified {
			style = s.Success
		}
		b.WriteString(style.Render(v.status))
		b.WriteString("\n")
	}
	if !v.verified {
		b.WriteString(s.Help.Render("enter verify • esc back"))
	}
	return b.String()
}
