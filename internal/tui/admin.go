package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/evbook/evbook/internal/domain"
)

type adminTab int

const (
	tabPending adminTab = iota
	tabUsers
)

type pendingMsg struct {
	bookings []domain.Booking
	err      error
}

type accountsMsg struct {
	accounts []domain.Account
	err      error
}

// adminDashboard approves bookings and manages user accounts.
type adminDashboard struct {
	env      env
	tab      adminTab
	pending  table.Model
	users    table.Model
	accounts []domain.Account
	loading  int
	busy     bool
}

func newAdminDashboard(e env) *adminDashboard {
	users := newTable([]table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 18},
		{Title: "Email", Width: 26},
		{Title: "Verified", Width: 8},
		{Title: "Status", Width: 8},
	})
	users.Blur()
	return &adminDashboard{
		env: e,
		pending: newTable([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "User @ Station", Width: 30},
			{Title: "Slot", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Time", Width: 12},
			{Title: "Status", Width: 10},
		}),
		users: users,
	}
}

func (v *adminDashboard) Init() tea.Cmd { return v.reload() }

func (v *adminDashboard) Busy() bool { return v.loading > 0 || v.busy }

func (v *adminDashboard) reload() tea.Cmd {
	api := v.env.api
	v.loading = 2
	return tea.Batch(
		v.env.async(func(ctx context.Context) tea.Msg {
			b, err := api.ListPendingBookings(ctx)
			return pendingMsg{bookings: b, err: err}
		}),
		v.env.async(func(ctx context.Context) tea.Msg {
			a, err := api.ListAccounts(ctx)
			return accountsMsg{accounts: a, err: err}
		}),
	)
}

// act runs a mutation on the selected row of the active table.
func (v *adminDashboard) act(t table.Model, do func(context.Context, domain.ID) (string, error), done, failed string) tea.Cmd {
	id, ok := selectedID(t)
	if !ok {
		return nil
	}
	v.busy = true
	return v.env.async(func(ctx context.Context) tea.Msg {
		msg, err := do(ctx, id)
		return actionMsg{message: orText(msg, done), err: err, failed: failed}
	})
}

func (v *adminDashboard) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case pendingMsg:
		v.loading--
		if msg.err != nil {
			return v, notify(noteError, errText(msg.err, "Failed to load pending bookings"))
		}
		v.pending.SetRows(bookingRows(msg.bookings, true))
		return v, nil

	case accountsMsg:
		v.loading--
		if msg.err != nil {
			return v, notify(noteError, errText(msg.err, "Failed to load users"))
		}
		v.accounts = msg.accounts
		v.users.SetRows(accountRows(msg.accounts))
		return v, nil

	case actionMsg:
		v.busy = false
		if msg.err != nil {
			return v, msg.notify()
		}
		return v, tea.Batch(msg.notify(), v.reload())

	case tea.KeyMsg:
		if v.Busy() {
			return v, nil
		}
		api := v.env.api
		switch {
		case key.Matches(msg, keys.Tab):
			v.switchTab()
			return v, nil
		case key.Matches(msg, keys.Refresh):
			return v, v.reload()
		case key.Matches(msg, keys.Logout):
			return v, logout
		case v.tab == tabPending && key.Matches(msg, keys.Approve):
			return v, v.act(v.pending, api.ApproveBooking, "Booking approved", "Failed to approve booking")
		case v.tab == tabPending && key.Matches(msg, keys.Reject):
			return v, v.act(v.pending, api.RejectBooking, "Booking rejected", "Failed to reject booking")
		case v.tab == tabUsers && key.Matches(msg, keys.Block):
			return v, v.act(v.users, api.BlockAccount, "User blocked", "Failed to block user")
		case v.tab == tabUsers && key.Matches(msg, keys.Unblock):
			return v, v.act(v.users, api.UnblockAccount, "User unblocked", "Failed to unblock user")
		}

		var cmd tea.Cmd
		if v.tab == tabPending {
			v.pending, cmd = v.pending.Update(msg)
		} else {
			v.users, cmd = v.users.Update(msg)
		}
		return v, cmd
	}
	return v, nil
}

func (v *adminDashboard) switchTab() {
	if v.tab == tabPending {
		v.tab = tabUsers
		v.pending.Blur()
		v.users.Focus()
		return
	}
	v.tab = tabPending
	v.users.Blur()
	v.pending.Focus()
}

func (v *adminDashboard) View() string {
	s := v.env.styles
	var b strings.Builder

	pendingTitle, usersTitle := s.Muted.Render(" Pending bookings "), s.Muted.Render(" Users ")
	if v.tab == tabPending {
		pendingTitle = s.Highlighted.Render("Pending bookings")
	} else {
		usersTitle = s.Highlighted.Render("Users")
	}
	b.WriteString(pendingTitle + " " + usersTitle + "\n\n")

	if v.tab == tabPending {
		if len(v.pending.Rows()) == 0 && v.loading == 0 {
			b.WriteString(s.Muted.Render("No pending bookings."))
		} else {
			b.WriteString(v.pending.View())
		}
		b.WriteString("\n")
		b.WriteString(s.Help.Render("tab users • a approve • x reject • r refresh • o logout"))
		return b.String()
	}

	b.WriteString(v.users.View())
	b.WriteString("\n")
	b.WriteString(s.Help.Render("tab pending bookings • b block • u unblock • r refresh • o logout"))
	return b.String()
}

func accountRows(accounts []domain.Account) []table.Row {
	rows := make([]table.Row, 0, len(accounts))
	for _, a := range accounts {
		verified, status := "no", "active"
		if a.Verified {
			verified = "yes"
		}
		if a.Blocked {
			status = "blocked"
		}
		rows = append(rows, table.Row{a.ID.String(), a.Name, a.Email, verified, status})
	}
	return rows
}
