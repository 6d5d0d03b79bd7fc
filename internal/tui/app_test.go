package tui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/storage"
)

// fakeAuth implements session.API.
type fakeAuth struct {
	mu       sync.Mutex
	calls    []string
	confirms []apiclient.ResetConfirmRequest
	login    *apiclient.LoginResponse
	err      error
}

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAuth) Login(_ context.Context, _, _ string, _ bool) (*apiclient.LoginResponse, error) {
	f.record("login")
	return f.login, f.err
}

func (f *fakeAuth) Register(context.Context, domain.Registration, bool) (*apiclient.RegisterResponse, error) {
	f.record("register")
	return &apiclient.RegisterResponse{}, f.err
}

func (f *fakeAuth) UpdateProfile(context.Context, domain.ProfileUpdate) (*domain.Principal, error) {
	f.record("profile")
	return nil, f.err
}

func (f *fakeAuth) RequestPasswordReset(context.Context, string) (string, error) {
	f.record("reset-request")
	return "sent", f.err
}

func (f *fakeAuth) ConfirmPasswordReset(_ context.Context, req apiclient.ResetConfirmRequest) (string, error) {
	f.record("reset-confirm")
	f.mu.Lock()
	f.confirms = append(f.confirms, req)
	f.mu.Unlock()
	return "reset", f.err
}

func (f *fakeAuth) VerifyEmail(context.Context, string) (string, error) {
	f.record("verify")
	return "ok", f.err
}

// fakeBackend implements Backend.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	bookings []domain.Booking
	pending  []domain.Booking
	accounts []domain.Account
	err      error
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) UserStats(context.Context, domain.ID) (*domain.UserStats, error) {
	f.record("stats")
	return &domain.UserStats{TotalBookings: len(f.bookings), Pending: 1}, f.err
}

func (f *fakeBackend) ListMyBookings(context.Context) ([]domain.Booking, error) {
	f.record("bookings")
	return f.bookings, f.err
}

func (f *fakeBackend) CancelBooking(_ context.Context, id domain.ID) (string, error) {
	f.record("cancel " + id.String())
	return "Booking cancelled successfully", f.err
}

func (f *fakeBackend) ListPendingBookings(context.Context) ([]domain.Booking, error) {
	f.record("pending")
	return f.pending, f.err
}

func (f *fakeBackend) ApproveBooking(_ context.Context, id domain.ID) (string, error) {
	f.record("approve " + id.String())
	return "", f.err
}

func (f *fakeBackend) RejectBooking(_ context.Context, id domain.ID) (string, error) {
	f.record("reject " + id.String())
	return "", f.err
}

func (f *fakeBackend) ListAccounts(context.Context) ([]domain.Account, error) {
	f.record("accounts")
	return f.accounts, f.err
}

func (f *fakeBackend) BlockAccount(_ context.Context, id domain.ID) (string, error) {
	f.record("block " + id.String())
	return "User blocked", f.err
}

func (f *fakeBackend) UnblockAccount(_ context.Context, id domain.ID) (string, error) {
	f.record("unblock " + id.String())
	return "User unblocked", f.err
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var testOptions = Options{NotificationTTL: time.Millisecond, NavigateDelay: time.Millisecond}

func newTestApp(t *testing.T, auth *fakeAuth, backend *fakeBackend, opts Options, persisted map[string]string) (*App, *storage.MemoryBackend) {
	t.Helper()
	mem := storage.NewMemoryBackend()
	if persisted != nil {
		require.NoError(t, mem.Put(context.Background(), persisted))
	}
	store := session.NewStore(mem, auth)
	return NewApp(context.Background(), store, backend, opts), mem
}

// hydrate delivers the hydrate result the way Init's command would.
func hydrate(a *App) tea.Cmd {
	_, cmd := a.Update(hydratedMsg{sess: a.store.Hydrate(a.ctx)})
	return cmd
}

// runAsync executes a view command made of env.async results and feeds each
// result back to the app.
func runAsync(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runAsync(t, a, c)
		}
		return
	}
	a.Update(msg)
}

func userSession() map[string]string {
	return map[string]string{
		storage.KeyToken: "tok",
		storage.KeyUser:  `{"user_id":7,"name":"Asha","email":"asha@example.com"}`,
	}
}

func adminSession() map[string]string {
	return map[string]string{
		storage.KeyToken: "tok",
		storage.KeyUser:  `{"admin_id":1,"name":"Ravi","role":"super admin","isAdmin":true}`,
	}
}

func TestApp_LoadingUntilHydrated(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)

	assert.True(t, a.store.Session().Loading)
	assert.Contains(t, a.View(), "Loading")
	assert.Nil(t, a.view)

	hydrate(a)
	assert.Equal(t, guard.PathHome, a.Route().Path)
	assert.IsType(t, &homeView{}, a.view)
}

func TestApp_AdminRouteRedirectsToLogin(t *testing.T) {
	opts := testOptions
	opts.StartPath = guard.PathAdminDashboard
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, opts, nil)

	hydrate(a)
	assert.Equal(t, guard.PathLogin, a.Route().Path)
}

func TestApp_UserCannotOpenAdminDashboard(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, userSession())
	hydrate(a)

	a.Update(navigateMsg{path: guard.PathAdminDashboard})
	assert.Equal(t, guard.PathLogin, a.Route().Path)
}

func TestApp_RestoredSessionOpensDashboard(t *testing.T) {
	opts := testOptions
	opts.StartPath = guard.PathAdminDashboard
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, opts, adminSession())

	hydrate(a)
	assert.Equal(t, guard.PathAdminDashboard, a.Route().Path)
	assert.Contains(t, a.View(), "Ravi")
}

func TestApp_UnknownPathGoesHome(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	hydrate(a)

	a.Update(navigateMsg{path: "/stations/42"})
	assert.Equal(t, guard.PathHome, a.Route().Path)
}

func TestApp_DropsResultsForUnmountedView(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	hydrate(a)

	a.Update(navigateMsg{path: guard.PathLogin})
	stale := a.mount
	a.Update(navigateMsg{path: guard.PathRegister})

	_, cmd := a.Update(mountedMsg{mount: stale, msg: loginDoneMsg{result: session.Result{Success: true, Message: "Welcome back"}}})
	assert.Nil(t, cmd)
	assert.Equal(t, guard.PathRegister, a.Route().Path)
	assert.Empty(t, a.notes)
}

func TestApp_DropsDelayedNavigationFromUnmountedView(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	hydrate(a)

	a.Update(navigateMsg{path: guard.PathVerifyEmail})
	stale := a.mount
	a.Update(navigateMsg{path: guard.PathRegister})

	a.Update(navigateMsg{path: guard.PathLogin, mount: stale})
	assert.Equal(t, guard.PathRegister, a.Route().Path)
}

func TestApp_Notifications(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	hydrate(a)

	_, cmd := a.Update(notifyMsg{level: noteError, text: "Account blocked"})
	require.NotNil(t, cmd)
	require.Len(t, a.notes, 1)
	assert.Contains(t, a.View(), "Account blocked")

	// the expiry tick removes it
	a.Update(cmd())
	assert.Empty(t, a.notes)

	for i := 0; i < 5; i++ {
		a.Update(notifyMsg{level: noteInfo, text: strings.Repeat("x", i+1)})
	}
	assert.Len(t, a.notes, maxNotes)
	assert.Equal(t, "xxxxx", a.notes[len(a.notes)-1].text)

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, a.notes, maxNotes-1)
	assert.Equal(t, guard.PathHome, a.Route().Path)
}

func TestApp_ResetAndRedirect(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, userSession())
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathUserDashboard})
	mounted := a.mount

	a.Update(notifyMsg{text: "hello"})
	a.Update(resetMsg{})
	assert.Equal(t, guard.PathHome, a.Route().Path)
	assert.Empty(t, a.notes)
	assert.Greater(t, a.mount, mounted)

	a.Update(redirectLoginMsg{})
	assert.Equal(t, guard.PathLogin, a.Route().Path)
}

func TestApp_Quit(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNavigator(t *testing.T) {
	var got []tea.Msg
	n := NewNavigator(func(m tea.Msg) { got = append(got, m) })
	n.Reset()
	n.RedirectToLogin()
	assert.Equal(t, []tea.Msg{resetMsg{}, redirectLoginMsg{}}, got)
}

func TestWatchSession_HeaderFollowsStore(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, userSession())
	hydrate(a)
	require.Contains(t, a.View(), "Asha")

	var got []tea.Msg
	stop := watchSession(a.store, func(m tea.Msg) { got = append(got, m) })

	name := "Asha Rao"
	require.True(t, a.store.UpdateProfile(ctx, domain.ProfileUpdate{Name: &name}).Success)
	a.store.Expire()
	stop()
	a.store.Expire()

	require.Len(t, got, 2)
	a.Update(got[0])
	assert.Contains(t, a.View(), "Asha Rao")
	a.Update(got[1])
	assert.NotContains(t, a.View(), "Asha")
}

func TestLoginView_Success(t *testing.T) {
	auth := &fakeAuth{login: &apiclient.LoginResponse{
		Token: "tok",
		User:  domain.Principal{ID: "7", Name: "Asha"},
	}}
	a, mem := newTestApp(t, auth, &fakeBackend{}, testOptions, nil)
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathLogin})

	lv, ok := a.view.(*loginView)
	require.True(t, ok)
	lv.email, lv.password = "asha@example.com", "secret1"

	runAsync(t, a, lv.submit())
	assert.True(t, a.store.Session().IsAuthenticated())
	assert.Contains(t, mem.Snapshot(), storage.KeyToken)

	a.Update(navigateMsg{path: guard.PathUserDashboard, mount: a.mount})
	assert.Equal(t, guard.PathUserDashboard, a.Route().Path)
}

func TestLoginView_ShortPasswordSendsNothing(t *testing.T) {
	auth := &fakeAuth{}
	a, _ := newTestApp(t, auth, &fakeBackend{}, testOptions, nil)
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathLogin})

	lv := a.view.(*loginView)
	lv.email, lv.password = "user@test.com", "short"
	msg := lv.submit()()

	_, cmd := a.Update(msg)
	require.NotNil(t, cmd)
	assert.Empty(t, auth.calls)
	assert.False(t, lv.Busy())
	assert.Equal(t, guard.PathLogin, a.Route().Path)
}

func TestLoginView_ForbiddenMessage(t *testing.T) {
	auth := &fakeAuth{err: &apiclient.APIError{StatusCode: http.StatusForbidden, Message: "Account blocked"}}
	a, _ := newTestApp(t, auth, &fakeBackend{}, testOptions, nil)
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathLogin})

	lv := a.view.(*loginView)
	lv.email, lv.password = "user@test.com", "secret1"
	inner := lv.submit()().(mountedMsg).msg.(loginDoneMsg)
	assert.Equal(t, "Account blocked", inner.result.Message)
}

func TestForgotView_SanitizesOTPAndResets(t *testing.T) {
	auth := &fakeAuth{}
	a, _ := newTestApp(t, auth, &fakeBackend{}, testOptions, nil)
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathForgotPassword})

	fv, ok := a.view.(*forgotView)
	require.True(t, ok)
	fv.email.SetValue("u@x.io")
	runAsync(t, a, fv.submit())
	require.Equal(t, "u@x.io", fv.flow.Email())
	require.Contains(t, a.View(), "Code sent")

	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12a3b456789")})
	assert.Equal(t, "123456", fv.inputs[fieldOTP].Value())
	assert.Equal(t, "123456", fv.flow.OTP())

	fv.inputs[fieldPassword].SetValue("Abc123")
	fv.inputs[fieldConfirm].SetValue("Abc123")
	runAsync(t, a, fv.submit())

	assert.True(t, fv.flow.Done())
	assert.Equal(t, []apiclient.ResetConfirmRequest{{Email: "u@x.io", OTP: "123456", NewPassword: "Abc123"}}, auth.confirms)
}

func TestForgotView_BackKeepsEmail(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, nil)
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathForgotPassword})

	fv := a.view.(*forgotView)
	fv.email.SetValue("u@x.io")
	runAsync(t, a, fv.submit())
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("123")})

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "u@x.io", fv.email.Value())
	assert.Empty(t, fv.inputs[fieldOTP].Value())
	assert.Equal(t, guard.PathForgotPassword, a.Route().Path)
}

func TestVerifyView_AutoSubmitsToken(t *testing.T) {
	auth := &fakeAuth{}
	opts := testOptions
	opts.StartPath = guard.PathVerifyEmail
	opts.VerifyToken = "abc123"
	a, _ := newTestApp(t, auth, &fakeBackend{}, opts, nil)
	hydrate(a)

	vv, ok := a.view.(*verifyView)
	require.True(t, ok)
	assert.True(t, vv.Busy())

	runAsync(t, a, vv.submit())
	assert.True(t, vv.verified)
	assert.Contains(t, auth.calls, "verify")
	assert.Contains(t, vv.View(), "verified successfully")
	assert.NotContains(t, vv.View(), "enter verify")
}

func TestUserDashboard(t *testing.T) {
	backend := &fakeBackend{bookings: []domain.Booking{
		{ID: "11", StationName: "Koramangala", SlotNumber: 2, Date: "2026-10-20", StartTime: "10:00", EndTime: "11:00", Status: domain.BookingApproved},
		{ID: "12", StationName: "Whitefield", SlotNumber: 1, Date: "2026-10-21", StartTime: "09:00", EndTime: "10:00", Status: domain.BookingPending},
	}}
	a, _ := newTestApp(t, &fakeAuth{}, backend, testOptions, userSession())
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathUserDashboard})

	dv, ok := a.view.(*userDashboard)
	require.True(t, ok)
	runAsync(t, a, dv.reload())

	assert.False(t, dv.Busy())
	view := a.View()
	assert.Contains(t, view, "Welcome, Asha")
	assert.Contains(t, view, "Koramangala")

	// approved bookings cannot be cancelled
	cmd := dv.cancelSelected()
	require.NotNil(t, cmd)
	assert.IsType(t, notifyMsg{}, cmd())

	dv.table.SetCursor(1)
	runAsync(t, a, dv.cancelSelected())
	assert.Contains(t, backend.Calls(), "cancel 12")
}

func TestUserDashboard_LoadError(t *testing.T) {
	backend := &fakeBackend{err: &apiclient.APIError{Cause: errors.New("dial tcp: connection refused")}}
	a, _ := newTestApp(t, &fakeAuth{}, backend, testOptions, userSession())
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathUserDashboard})

	dv := a.view.(*userDashboard)
	batch, ok := dv.reload()().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	for _, c := range batch {
		_, cmd := dv.Update(c().(mountedMsg).msg)
		require.NotNil(t, cmd)
		assert.Equal(t, notifyMsg{level: noteError, text: unreachableText}, cmd())
	}
	assert.False(t, dv.Busy())
}

func TestAdminDashboard(t *testing.T) {
	backend := &fakeBackend{
		pending:  []domain.Booking{{ID: "31", UserName: "Asha", StationName: "Koramangala", Status: domain.BookingPending}},
		accounts: []domain.Account{{ID: "7", Name: "Asha", Email: "asha@example.com", Verified: true}},
	}
	a, _ := newTestApp(t, &fakeAuth{}, backend, testOptions, adminSession())
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathAdminDashboard})

	av, ok := a.view.(*adminDashboard)
	require.True(t, ok)
	runAsync(t, a, av.reload())
	assert.Contains(t, a.View(), "Asha @ Koramangala")

	runAsync(t, a, av.act(av.pending, backend.ApproveBooking, "Booking approved", "failed"))
	assert.Contains(t, backend.Calls(), "approve 31")

	av.switchTab()
	assert.Contains(t, a.View(), "asha@example.com")
	runAsync(t, a, av.act(av.users, backend.BlockAccount, "User blocked", "failed"))
	assert.Contains(t, backend.Calls(), "block 7")
}

func TestLogout_ResetsViews(t *testing.T) {
	a, mem := newTestApp(t, &fakeAuth{}, &fakeBackend{}, testOptions, userSession())
	var sent []tea.Msg
	a.store.SetNavigator(NewNavigator(func(m tea.Msg) { sent = append(sent, m) }))
	hydrate(a)
	a.Update(navigateMsg{path: guard.PathUserDashboard})

	_, cmd := a.Update(logoutMsg{})
	require.NotNil(t, cmd)
	note := cmd()
	assert.Equal(t, notifyMsg{level: noteSuccess, text: "Logged out successfully!"}, note)
	assert.Equal(t, []tea.Msg{resetMsg{}}, sent)
	assert.Empty(t, mem.Snapshot())

	a.Update(sent[0])
	a.Update(note)
	assert.Equal(t, guard.PathHome, a.Route().Path)
	assert.Len(t, a.notes, 1)
}
