package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evbook/evbook/internal/apiclient"
	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/validate"
)

const unreachableText = "Cannot connect to server. Please check your connection."

// errText is the message shown for a failed dashboard request.
func errText(err error, fallback string) string {
	if apiclient.KindOf(err) == apiclient.KindUnreachable {
		return unreachableText
	}
	if msg := apiclient.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// actionMsg is the outcome of a mutation; a successful one reloads the lists.
type actionMsg struct {
	message string
	err     error
	failed  string
}

func (m actionMsg) notify() tea.Cmd {
	if m.err != nil {
		return notify(noteError, errText(m.err, m.failed))
	}
	if m.message == "" {
		return nil
	}
	return notify(noteSuccess, m.message)
}

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Bold(true)
	t.SetStyles(st)
	return t
}

// selectedID returns the first column of the selected row.
func selectedID(t table.Model) (domain.ID, bool) {
	row := t.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return domain.ID(row[0]), true
}

type statsMsg struct {
	stats *domain.UserStats
	err   error
}

type myBookingsMsg struct {
	bookings []domain.Booking
	err      error
}

type profileSavedMsg struct {
	result session.Result
}

// userDashboard shows the profile, booking statistics and bookings.
type userDashboard struct {
	env      env
	stats    *domain.UserStats
	bookings []domain.Booking
	table    table.Model
	loading  int
	busy     bool

	editing bool
	form    *huh.Form
	edit    struct {
		name, phone, vehicle, vehicleType string
	}
}

func newUserDashboard(e env) *userDashboard {
	return &userDashboard{
		env: e,
		table: newTable([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Station", Width: 22},
			{Title: "Slot", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Time", Width: 12},
			{Title: "Status", Width: 10},
		}),
	}
}

func (v *userDashboard) Init() tea.Cmd { return v.reload() }

func (v *userDashboard) Busy() bool { return v.loading > 0 || v.busy }

func (v *userDashboard) reload() tea.Cmd {
	p := v.env.store.Session().Principal
	if p == nil {
		return nil
	}
	api, id := v.env.api, p.ID
	v.loading = 2
	return tea.Batch(
		v.env.async(func(ctx context.Context) tea.Msg {
			s, err := api.UserStats(ctx, id)
			return statsMsg{stats: s, err: err}
		}),
		v.env.async(func(ctx context.Context) tea.Msg {
			b, err := api.ListMyBookings(ctx)
			return myBookingsMsg{bookings: b, err: err}
		}),
	)
}

func (v *userDashboard) startEdit() tea.Cmd {
	p := v.env.store.Session().Principal
	if p == nil {
		return nil
	}
	v.edit.name, v.edit.phone = p.Name, p.PhoneNumber
	v.edit.vehicle, v.edit.vehicleType = p.VehicleNumber, p.VehicleType
	v.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full name").Value(&v.edit.name),
		huh.NewInput().Title("Phone number").Value(&v.edit.phone),
		huh.NewInput().Title("Vehicle number").Value(&v.edit.vehicle),
		huh.NewInput().Title("Vehicle type").Value(&v.edit.vehicleType),
	).Title("Edit profile").Description("esc cancel")).WithShowHelp(false)
	v.editing = true
	return v.form.Init()
}

func (v *userDashboard) saveProfile() tea.Cmd {
	v.editing = false
	v.busy = true
	name, phone := strings.TrimSpace(v.edit.name), validate.SanitizePhone(v.edit.phone)
	vehicle := strings.ToUpper(strings.TrimSpace(v.edit.vehicle))
	vehicleType := strings.TrimSpace(v.edit.vehicleType)
	update := domain.ProfileUpdate{
		Name:          &name,
		PhoneNumber:   &phone,
		VehicleNumber: &vehicle,
		VehicleType:   &vehicleType,
	}
	store := v.env.store
	return v.env.async(func(ctx context.Context) tea.Msg {
		return profileSavedMsg{result: store.SaveProfile(ctx, update)}
	})
}

func (v *userDashboard) cancelSelected() tea.Cmd {
	id, ok := selectedID(v.table)
	if !ok {
		return nil
	}
	for _, b := range v.bookings {
		if b.ID == id && !b.Status.IsCancellable() {
			return notify(noteWarning, "Only pending bookings can be cancelled")
		}
	}
	v.busy = true
	api := v.env.api
	return v.env.async(func(ctx context.Context) tea.Msg {
		msg, err := api.CancelBooking(ctx, id)
		return actionMsg{message: orText(msg, "Booking cancelled"), err: err, failed: "Failed to cancel booking"}
	})
}

func (v *userDashboard) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		v.loading--
		if msg.err != nil {
			return v, notify(noteError, errText(msg.err, "Failed to load statistics"))
		}
		v.stats = msg.stats
		return v, nil

	case myBookingsMsg:
		v.loading--
		if msg.err != nil {
			return v, notify(noteError, errText(msg.err, "Failed to load bookings"))
		}
		v.bookings = msg.bookings
		v.table.SetRows(bookingRows(msg.bookings, false))
		return v, nil

	case actionMsg:
		v.busy = false
		if msg.err != nil {
			return v, msg.notify()
		}
		return v, tea.Batch(msg.notify(), v.reload())

	case profileSavedMsg:
		v.busy = false
		return v, notifyResult(msg.result)

	case tea.KeyMsg:
		if v.editing {
			if key.Matches(msg, keys.Back) {
				v.editing = false
				return v, nil
			}
			break
		}
		if v.Busy() {
			return v, nil
		}
		switch {
		case key.Matches(msg, keys.Refresh):
			return v, v.reload()
		case key.Matches(msg, keys.Cancel):
			return v, v.cancelSelected()
		case key.Matches(msg, keys.Edit):
			return v, v.startEdit()
		case key.Matches(msg, keys.Logout):
			return v, logout
		}
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}

	if v.editing {
		form, cmd := v.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			v.form = f
			if f.State == huh.StateCompleted {
				return v, v.saveProfile()
			}
		}
		return v, cmd
	}
	return v, nil
}

func (v *userDashboard) View() string {
	if v.editing {
		return v.form.View()
	}

	s := v.env.styles
	var b strings.Builder
	if p := v.env.store.Session().Principal; p != nil {
		b.WriteString(s.Status.Render("Welcome, " + p.Name))
		b.WriteString("\n")
		b.WriteString(field(s, "Email", p.Email))
		b.WriteString(field(s, "Phone", p.PhoneNumber))
		b.WriteString(field(s, "Vehicle", strings.TrimSpace(p.VehicleNumber+" "+p.VehicleType)))
	}
	if v.stats != nil {
		b.WriteString("\n")
		b.WriteString(s.Label.Render(fmt.Sprintf("Bookings %d", v.stats.TotalBookings)))
		for _, c := range []struct {
			status domain.BookingStatus
			n      int
		}{
			{domain.BookingApproved, v.stats.Approved},
			{domain.BookingPending, v.stats.Pending},
			{domain.BookingRejected, v.stats.Rejected},
			{domain.BookingCancelled, v.stats.Cancelled},
		} {
			b.WriteString(s.Label.Render(" • "))
			b.WriteString(s.BookingCount(c.status, c.n))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if len(v.bookings) == 0 && v.loading == 0 {
		b.WriteString(s.Muted.Render("No bookings yet."))
	} else {
		b.WriteString(v.table.View())
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render("↑/↓ select • c cancel booking • e edit profile • r refresh • o logout"))
	return b.String()
}

func field(s Styles, label, value string) string {
	if value == "" {
		value = "-"
	}
	return s.Label.Render(label+": ") + s.Value.Render(value) + "\n"
}

func orText(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func bookingRows(bookings []domain.Booking, withUser bool) []table.Row {
	rows := make([]table.Row, 0, len(bookings))
	for _, b := range bookings {
		station := b.StationName
		if withUser && b.UserName != "" {
			station = b.UserName + " @ " + b.StationName
		}
		rows = append(rows, table.Row{
			b.ID.String(),
			station,
			fmt.Sprint(b.SlotNumber),
			b.Date,
			b.StartTime + "-" + b.EndTime,
			b.Status.String(),
		})
	}
	return rows
}
