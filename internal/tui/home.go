package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evbook/evbook/internal/guard"
)

type menuItem struct {
	label string
	cmd   tea.Cmd
}

// homeView is the landing menu.
type homeView struct {
	env    env
	items  []menuItem
	cursor int
}

func newHomeView(e env) *homeView {
	v := &homeView{env: e}
	sess := e.store.Session()
	if sess.IsAuthenticated() {
		v.items = []menuItem{
			{"Open dashboard", goTo(guard.Home(sess))},
			{"Logout", logout},
		}
	} else {
		v.items = []menuItem{
			{"Login", goTo(guard.PathLogin)},
			{"Register", goTo(guard.PathRegister)},
			{"Forgot password", goTo(guard.PathForgotPassword)},
			{"Verify email", goTo(guard.PathVerifyEmail)},
		}
	}
	v.items = append(v.items, menuItem{"Quit", tea.Quit})
	return v
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) Busy() bool { return false }

func (v *homeView) Update(msg tea.Msg) (view, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(km, keys.Down):
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case key.Matches(km, keys.Select):
		return v, v.items[v.cursor].cmd
	}
	return v, nil
}

func (v *homeView) View() string {
	s := v.env.styles
	var b strings.Builder
	b.WriteString(s.Subtitle.Render("Find a charging station, book a slot and manage your reservations."))
	b.WriteString("\n")
	for i, item := range v.items {
		if i == v.cursor {
			b.WriteString(s.Highlighted.Render("> " + item.label))
		} else {
			b.WriteString("  " + item.label)
		}
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("↑/↓ move • enter select • ctrl+c quit"))
	return b.String()
}
