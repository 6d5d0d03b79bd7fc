package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/session"
)

type loginDoneMsg struct {
	result session.Result
}

// loginView signs in a user or an administrator.
type loginView struct {
	env  env
	form *huh.Form
	busy bool

	admin    bool
	email    string
	password string
}

func newLoginView(e env) *loginView {
	v := &loginView{env: e}
	v.buildForm()
	return v
}

func (v *loginView) buildForm() {
	v.password = ""
	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Sign in as").
				Options(huh.NewOption("User", false), huh.NewOption("Administrator", true)).
				Value(&v.admin),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&v.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password),
		).Title("Login").Description("ctrl+r register • ctrl+f forgot password • esc back"),
	).WithShowHelp(false)
}

func (v *loginView) Init() tea.Cmd { return v.form.Init() }

func (v *loginView) Busy() bool { return v.busy }

func (v *loginView) submit() tea.Cmd {
	v.busy = true
	email, password, admin := strings.TrimSpace(v.email), v.password, v.admin
	store := v.env.store
	return v.env.async(func(ctx context.Context) tea.Msg {
		return loginDoneMsg{result: store.Login(ctx, email, password, admin)}
	})
}

func (v *loginView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		v.busy = false
		if msg.result.Success {
			dest := guard.Home(v.env.store.Session())
			return v, tea.Batch(notifyResult(msg.result), goToAfter(dest, v.env.opts.NavigateDelay, v.env.mount))
		}
		v.buildForm()
		return v, tea.Batch(notifyResult(msg.result), v.form.Init())

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			return v, goTo(guard.PathHome)
		case key.Matches(msg, keys.Register):
			return v, goTo(guard.PathRegister)
		case key.Matches(msg, keys.Forgot):
			return v, goTo(guard.PathForgotPassword)
		}
	}

	if v.busy {
		return v, nil
	}
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
		if f.State == huh.StateCompleted {
			return v, v.submit()
		}
	}
	return v, cmd
}

func (v *loginView) View() string {
	if v.busy {
		return v.env.styles.Muted.Render("Signing in as " + v.email)
	}
	return v.form.View()
}
