package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/domain"
	"github.com/evbook/evbook/internal/session"
	"github.com/evbook/evbook/internal/tui"
	"github.com/evbook/evbook/internal/validate"
)

func newLoginCmd(cc *CommandContext) *cobra.Command {
	var (
		email    string
		password string
		admin    bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the reservation service",
		Long: `Sign in with your email and password. The session is saved on this
device until you log out or it expires.

Missing credentials are prompted for when a terminal is attached.

Examples:
  evbook login --email ada@example.com
  evbook login --admin --email admin@example.com`,
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Fill(&email, tui.EmailPrompt); err != nil {
				return err
			}
			if err := tui.Fill(&password, tui.PasswordPrompt); err != nil {
				return err
			}

			r := cc.Store.Login(contextOf(cmd), email, password, admin)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			if r.Principal != nil && cc.machine() {
				return cc.Output(newProfileView(r.Principal))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().BoolVar(&admin, "admin", false, "sign in as an administrator")
	return cmd
}

func newLogoutCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Sign out and forget the saved session",
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			signedIn := cc.Store.Session().IsAuthenticated()
			r := cc.Store.Logout(contextOf(cmd))
			if r.Success && !signedIn {
				cc.Println("Not logged in.")
				return nil
			}
			cc.Println(r.Message)
			return cc.resultErr(r)
		},
	}
}

// statusReport describes the saved session.
type statusReport struct {
	SignedIn bool         `json:"signed_in" yaml:"signed_in"`
	User     *profileView `json:"user,omitempty" yaml:"user,omitempty"`
	APIURL   string       `json:"api_url" yaml:"api_url"`
	Storage  string       `json:"storage" yaml:"storage"`
}

// String implements fmt.Stringer
func (s statusReport) String() string {
	var b strings.Builder
	if s.SignedIn {
		fmt.Fprintf(&b, "Signed in as %s <%s> (%s)\n", s.User.Name, s.User.Email, s.User.Role)
	} else {
		b.WriteString("Not logged in\n")
	}
	fmt.Fprintf(&b, "API:     %s\n", s.APIURL)
	fmt.Fprintf(&b, "Storage: %s", s.Storage)
	return b.String()
}

func newStatusCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		Short:       "Show who is signed in",
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := cc.Store.Session()
			report := statusReport{
				SignedIn: sess.IsAuthenticated(),
				APIURL:   cc.Client.BaseURL(),
				Storage:  cc.Config.Storage.Driver,
			}
			if cc.Config.Storage.Driver != "memory" {
				report.Storage += " (" + cc.Config.Storage.Path + ")"
			}
			if sess.IsAuthenticated() {
				v := newProfileView(sess.Principal)
				report.User = &v
			}
			return cc.Output(report)
		},
	}
}

func newRegisterCmd(cc *CommandContext) *cobra.Command {
	var (
		reg   domain.Registration
		admin bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create a user account, or an administrator account with --admin.

Users receive a verification email and must verify before signing in.
Administrators choose a role and can sign in immediately.

Examples:
  evbook register --name "Ada" --email ada@example.com --vehicle-number KA01AB1234
  evbook register --admin --role "station manager" --name Sam --email sam@example.com`,
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Fill(&reg.Name, tui.Prompt{Title: "Name"}); err != nil {
				return err
			}
			if err := tui.Fill(&reg.Email, tui.EmailPrompt); err != nil {
				return err
			}
			if admin && reg.Role == "" && tui.ShouldPrompt() {
				roles := make([]string, 0, 2)
				for _, r := range domain.AdminRoles() {
					roles = append(roles, r.String())
				}
				role, err := tui.Choose("Admin role:", roles)
				if err != nil {
					return err
				}
				reg.Role = role
			}
			prompted := reg.Password == ""
			if err := tui.Fill(&reg.Password, tui.PasswordPrompt); err != nil {
				return err
			}
			if prompted && reg.Password != "" {
				if err := tui.Fill(&reg.ConfirmPassword, tui.Prompt{Title: "Confirm password", Secret: true}); err != nil {
					return err
				}
			} else {
				reg.ConfirmPassword = reg.Password
			}
			reg.PhoneNumber = validate.SanitizePhone(reg.PhoneNumber)
			if !admin {
				reg.Role = ""
			}

			r := cc.Store.Register(contextOf(cmd), reg, admin)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&reg.Name, "name", "", "full name")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.Password, "password", "", "password (prompted when omitted)")
	f.StringVar(&reg.PhoneNumber, "phone", "", "10-digit phone number")
	f.StringVar(&reg.VehicleNumber, "vehicle-number", "", "vehicle registration number")
	f.StringVar(&reg.VehicleType, "vehicle-type", "", "vehicle type, e.g. car")
	f.BoolVar(&admin, "admin", false, "register an administrator")
	f.StringVar(&reg.Role, "role", "", "administrator role: 'super admin' or 'station manager'")
	return cmd
}

func newVerifyEmailCmd(cc *CommandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "verify-email <token>",
		Short:       "Verify your email with the token from the verification email",
		Args:        cobra.MaximumNArgs(1),
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			}
			r := cc.Store.VerifyEmail(contextOf(cmd), token)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			return nil
		},
	}
}

// profileView is the printable form of a principal.
type profileView struct {
	ID            domain.ID `json:"user_id" yaml:"user_id"`
	Name          string    `json:"name" yaml:"name"`
	Email         string    `json:"email" yaml:"email"`
	Role          string    `json:"role" yaml:"role"`
	PhoneNumber   string    `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	VehicleNumber string    `json:"vehicle_number,omitempty" yaml:"vehicle_number,omitempty"`
	VehicleType   string    `json:"vehicle_type,omitempty" yaml:"vehicle_type,omitempty"`
	Verified      bool      `json:"verified" yaml:"verified"`
}

func newProfileView(p *domain.Principal) profileView {
	return profileView{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Role:          p.Role.String(),
		PhoneNumber:   p.PhoneNumber,
		VehicleNumber: p.VehicleNumber,
		VehicleType:   p.VehicleType,
		Verified:      p.Verified,
	}
}

// Table implements ux.Tabular
func (p profileView) Table() ([]string, [][]string) {
	return []string{"Field", "Value"}, [][]string{
		{"ID", p.ID.String()},
		{"Name", p.Name},
		{"Email", p.Email},
		{"Role", p.Role},
		{"Phone", orDash(p.PhoneNumber)},
		{"Vehicle number", orDash(p.VehicleNumber)},
		{"Vehicle type", orDash(p.VehicleType)},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ session.Navigator = (*cliNavigator)(nil)
