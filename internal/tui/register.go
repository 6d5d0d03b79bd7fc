package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/validate"
)

type registerDoneMsg struct {
	result session.Result
}

// registerView creates a user or administrator account.
type registerView struct {
	env  env
	form *huh.Form
	busy bool

	admin bool
	reg   domain.Registration
}

func newRegisterView(e env) *registerView {
	v := &registerView{env: e}
	v.buildForm()
	return v
}

func (v *registerView) buildForm() {
	v.reg.Password = ""
	v.reg.ConfirmPassword = ""

	roles := make([]huh.Option[string], 0, len(domain.AdminRoles()))
	for _, r := range domain.AdminRoles() {
		roles = append(roles, huh.NewOption(r.String(), r.String()))
	}

	v.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Account type").
				Options(huh.NewOption("EV driver", false), huh.NewOption("Administrator", true)).
				Value(&v.admin),
		).Title("Register"),
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&v.reg.Name),
			huh.NewInput().Title("Email").Value(&v.reg.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.reg.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&v.reg.ConfirmPassword),
		),
		huh.NewGroup(
			huh.NewInput().Title("Phone number").Placeholder("10 digits").Value(&v.reg.PhoneNumber),
			huh.NewInput().Title("Vehicle number").Placeholder("AB12CD3456").Value(&v.reg.VehicleNumber),
			huh.NewSelect[string]().
				Title("Vehicle type").
				Options(
					huh.NewOption("Not set", ""),
					huh.NewOption("Car", "car"),
					huh.NewOption("Bike", "bike"),
					huh.NewOption("Scooter", "scooter"),
				).
				Value(&v.reg.VehicleType),
		).WithHideFunc(func() bool { return v.admin }),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Admin role").Options(roles...).Value(&v.reg.Role),
		).WithHideFunc(func() bool { return !v.admin }),
	).WithShowHelp(false)
}

func (v *registerView) Init() tea.Cmd { return v.form.Init() }

func (v *registerView) Busy() bool { return v.busy }

func (v *registerView) submit() tea.Cmd {
	v.busy = true
	reg, admin := v.reg, v.admin
	reg.PhoneNumber = validate.SanitizePhone(reg.PhoneNumber)
	if !admin {
		reg.Role = ""
	}
	store := v.env.store
	return v.env.async(func(ctx context.Context) tea.Msg {
		return registerDoneMsg{result: store.Register(ctx, reg, admin)}
	})
}

func (v *registerView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		v.busy = false
		if msg.result.Success {
			return v, tea.Batch(notifyResult(msg.result), goToAfter(guard.PathLogin, v.env.opts.NavigateDelay, v.env.mount))
		}
		v.buildForm()
		return v, tea.Batch(notifyResult(msg.result), v.form.Init())

	case tea.KeyMsg:
		if !v.busy && key.Matches(msg, keys.Back) {
			return v, goTo(guard.PathHome)
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

func (v *registerView) View() string {
	if v.busy {
		return v.env.styles.Muted.Render("Creating your account...")
	}
	return v.form.View()
}
