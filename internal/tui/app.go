// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/log"
	"github.com/evbook/evbook/internal/session"
)

const maxNotes = 3

// Backend is the part of the remote API the dashboards use.
type Backend interface {
	UserStats(ctx context.Context, userID domain.ID) (*domain.UserStats, error)
	ListMyBookings(ctx context.Context) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id domain.ID) (string, error)
	ListPendingBookings(ctx context.Context) ([]domain.Booking, error)
	ApproveBooking(ctx context.Context, id domain.ID) (string, error)
	RejectBooking(ctx context.Context, id domain.ID) (string, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	BlockAccount(ctx context.Context, id domain.ID) (string, error)
	UnblockAccount(ctx context.Context, id domain.ID) (string, error)
}

// Options configures the app.
type Options struct {
	// NotificationTTL is how long a notification stays up.
	NotificationTTL time.Duration
	// NavigateDelay is the pause between a success message and the next view.
	NavigateDelay time.Duration
	// StartPath is the first route once the session is restored.
	StartPath string
	// VerifyToken pre-fills the verify-email view.
	VerifyToken string
	Logger      *log.Logger
}

func (o Options) withDefaults() Options {
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = 4 * time.Second
	}
	if o.NavigateDelay < 0 {
		o.NavigateDelay = 0
	}
	if o.StartPath == "" {
		o.StartPath = guard.PathHome
	}
	if o.Logger == nil {
		o.Logger = log.Nop()
	}
	return o
}

// view is a mounted screen.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (view, tea.Cmd)
	View() string
	// Busy reports whether a request started by the view is in flight.
	Busy() bool
}

// env is what a view gets at mount time.
type env struct {
	ctx    context.Context
	store  *session.Store
	api    Backend
	styles Styles
	opts   Options
	mount  int
}

// async runs fn off the event loop and tags its result with the mount id.
func (e env) async(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx, mount := e.ctx, e.mount
	return func() tea.Msg {
		return mountedMsg{mount: mount, msg: fn(ctx)}
	}
}

type notification struct {
	id    int
	level noteLevel
	text  string
}

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	store  *session.Store
	api    Backend
	opts   Options
	styles Styles
	logger *log.Logger

	sess    session.Session
	route   guard.Route
	view    view
	mount   int
	pending string
	waiting bool

	notes  []notification
	nextID int

	spinner  spinner.Model
	width    int
	quitting bool
}

// NewApp creates the app. The session stays loading until Init's hydrate
// command completes.
func NewApp(ctx context.Context, store *session.Store, api Backend, opts Options) *App {
	opts = opts.withDefaults()
	return &App{
		ctx:     ctx,
		store:   store,
		api:     api,
		opts:    opts,
		styles:  DefaultStyles(),
		logger:  opts.Logger.Component("tui"),
		pending: opts.StartPath,
		waiting: true,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init restores the session from storage.
func (a *App) Init() tea.Cmd {
	ctx, store := a.ctx, a.store
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return hydratedMsg{sess: store.Hydrate(ctx)}
	})
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		if key.Matches(msg, keys.Dismiss) && len(a.notes) > 0 {
			a.notes = a.notes[:len(a.notes)-1]
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case hydratedMsg:
		a.sess = msg.sess
		path := a.pending
		a.pending = ""
		return a, a.navigate(path)

	case navigateMsg:
		if msg.mount != 0 && msg.mount != a.mount {
			return a, nil
		}
		return a, a.navigate(msg.path)

	case mountedMsg:
		if msg.mount != a.mount || a.view == nil {
			a.logger.Debug("dropping result for unmounted view", "mount", msg.mount)
			return a, nil
		}
		return a, a.updateView(msg.msg)

	case sessionMsg:
		a.sess = msg.sess
		return a, nil

	case resetMsg:
		a.notes = nil
		return a, a.navigate(guard.PathHome)

	case redirectLoginMsg:
		return a, tea.Batch(
			a.navigate(guard.PathLogin),
			notify(noteWarning, "Your session has expired. Please login again."),
		)

	case logoutMsg:
		ctx, store := a.ctx, a.store
		return a, func() tea.Msg {
			if cmd := notifyResult(store.Logout(ctx)); cmd != nil {
				return cmd()
			}
			return nil
		}

	case notifyMsg:
		return a, a.push(msg)

	case expireNoteMsg:
		for i, n := range a.notes {
			if n.id == msg.id {
				a.notes = append(a.notes[:i], a.notes[i+1:]...)
				break
			}
		}
		return a, nil
	}

	return a, a.updateView(msg)
}

func (a *App) updateView(msg tea.Msg) tea.Cmd {
	if a.view == nil {
		return nil
	}
	var cmd tea.Cmd
	a.view, cmd = a.view.Update(msg)
	return cmd
}

// navigate resolves path through the guard and mounts the resulting view.
// Every navigation is a new mount, so results of the previous view are
// dropped.
func (a *App) navigate(path string) tea.Cmd {
	sess := a.store.Session()
	a.sess = sess
	route, decision := guard.Navigate(sess, path)

	a.mount++
	var note tea.Cmd
	switch decision {
	case guard.DecisionWait:
		a.pending = path
		a.waiting = true
		a.view = nil
		return nil

	case guard.DecisionRedirectLogin:
		a.logger.Debug("guard redirect", "path", route.Path)
		route = guard.Resolve(guard.PathLogin)
		note = notify(noteInfo, "Please login to continue.")
	}

	a.waiting = false
	a.route = route
	a.view = a.newView(route)
	return tea.Batch(a.view.Init(), note)
}

func (a *App) newView(r guard.Route) view {
	e := env{
		ctx:    a.ctx,
		store:  a.store,
		api:    a.api,
		styles: a.styles,
		opts:   a.opts,
		mount:  a.mount,
	}

	switch r.Path {
	case guard.PathLogin:
		return newLoginView(e)
	case guard.PathRegister:
		return newRegisterView(e)
	case guard.PathForgotPassword:
		return newForgotView(e)
	case guard.PathVerifyEmail:
		return newVerifyView(e, a.opts.VerifyToken)
	case guard.PathUserDashboard:
		return newUserDashboard(e)
	case guard.PathAdminDashboard:
		return newAdminDashboard(e)
	default:
		return newHomeView(e)
	}
}

func (a *App) push(n notifyMsg) tea.Cmd {
	a.nextID++
	id := a.nextID
	a.notes = append(a.notes, notification{id: id, level: n.level, text: n.text})
	if len(a.notes) > maxNotes {
		a.notes = a.notes[len(a.notes)-maxNotes:]
	}
	return tea.Tick(a.opts.NotificationTTL, func(time.Time) tea.Msg {
		return expireNoteMsg{id: id}
	})
}

// View renders the TUI (required by Bubble Tea)
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("⚡ evbook"))
	if p := a.sess.Principal; p != nil {
		b.WriteString(a.styles.Muted.Render(fmt.Sprintf("  %s (%s)", p.Name, p.Role)))
	}
	b.WriteString("\n")

	if toasts := a.renderNotes(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	switch {
	case a.waiting || a.view == nil:
		b.WriteString(a.spinner.View() + " Loading...")
	default:
		b.WriteString(a.view.View())
		if a.view.Busy() {
			b.WriteString("\n" + a.spinner.View() + " Working...")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderNotes() string {
	if len(a.notes) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(a.notes))
	for _, n := range a.notes {
		style := a.styles.ToastInfo
		switch n.level {
		case noteSuccess:
			style = a.styles.ToastSuccess
		case noteWarning:
			style = a.styles.ToastWarning
		case noteError:
			style = a.styles.ToastError
		}
		rendered = append(rendered, style.Render(n.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

// Route returns the mounted route.
func (a *App) Route() guard.Route {
	return a.route
}

// Navigator forwards store navigation requests to a running program.
type Navigator struct {
	send func(tea.Msg)
}

// NewNavigator returns a navigator that delivers messages with send,
// typically (*tea.Program).Send.
func NewNavigator(send func(tea.Msg)) *Navigator {
	return &Navigator{send: send}
}

// Reset implements session.Navigator
func (n *Navigator) Reset() { n.send(resetMsg{}) }

// RedirectToLogin implements session.Navigator
func (n *Navigator) RedirectToLogin() { n.send(redirectLoginMsg{}) }

// watchSession forwards every session change to the program so the header
// follows logins, profile edits and expiry.
func watchSession(store *session.Store, send func(tea.Msg)) func() {
	return store.Subscribe(func(s session.Session) {
		send(sessionMsg{sess: s})
	})
}

// Run starts the interactive UI and blocks until it exits.
func Run(ctx context.Context, store *session.Store, api Backend, opts Options) error {
	app := NewApp(ctx, store, api, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	store.SetNavigator(NewNavigator(p.Send))
	defer store.SetNavigator(nil)
	defer watchSession(store, p.Send)()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
