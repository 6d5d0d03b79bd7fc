package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/evbook/evbook/internal/session"
)

// mountedMsg carries the result of work started by a view. It is dropped
// when that view is no longer mounted.
type mountedMsg struct {
	mount int
	msg   tea.Msg
}

// hydratedMsg reports the restored session.
type hydratedMsg struct {
	sess session.Session
}

// sessionMsg carries the session after a change in the store.
type sessionMsg struct {
	sess session.Session
}

// resetMsg discards every view and returns to the root.
type resetMsg struct{}

// redirectLoginMsg shows the login view after the server rejected the token.
type redirectLoginMsg struct{}

// navigateMsg asks the app to open path. A non-zero mount ties the request
// to the view that issued it.
type navigateMsg struct {
	path  string
	mount int
}

// logoutMsg asks the app to end the session.
type logoutMsg struct{}

// noteLevel is the severity of a notification.
type noteLevel int

const (
	noteInfo noteLevel = iota
	noteSuccess
	noteWarning
	noteError
)

// notifyMsg adds a notification.
type notifyMsg struct {
	level noteLevel
	text  string
}

// expireNoteMsg removes notification id once its time is up.
type expireNoteMsg struct {
	id int
}

func notify(level noteLevel, text string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{level: level, text: text} }
}

// notifyResult turns a store result into a notification.
func notifyResult(r session.Result) tea.Cmd {
	if r.Message == "" {
		return nil
	}
	if r.Success {
		return notify(noteSuccess, r.Message)
	}
	return notify(noteError, r.Message)
}

func goTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// goToAfter navigates once d has passed, unless the issuing view is gone.
func goToAfter(path string, d time.Duration, mount int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return navigateMsg{path: path, mount: mount}
	})
}

func logout() tea.Msg { return logoutMsg{} }
