package cmd

import (
	"github.com/spf13/cobra"

	evberrors "github.com/evbook/evbook/internal/errors"
	"github.com/evbook/evbook/internal/passwordreset"
	"github.com/evbook/evbook/internal/tui"
	"github.com/evbook/evbook/internal/validate"
)

func newPasswordCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
		Long: `Reset a forgotten password with a one-time code sent by email.

The code has 6 digits and is valid for 10 minutes.

Examples:
  # Guided reset
  evbook password reset

  # Step by step
  evbook password request --email ada@example.com
  evbook password confirm --email ada@example.com --otp 123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newPasswordRequestCmd(cc), newPasswordConfirmCmd(cc), newPasswordResetCmd(cc))
	return cmd
}

func newPasswordRequestCmd(cc *CommandContext) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:         "request",
		Short:       "Email a one-time reset code",
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Fill(&email, tui.EmailPrompt); err != nil {
				return err
			}
			r := cc.Store.RequestPasswordReset(contextOf(cmd), email)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newPasswordConfirmCmd(cc *CommandContext) *cobra.Command {
	var email, otp, password string
	cmd := &cobra.Command{
		Use:         "confirm",
		Short:       "Set a new password with the emailed code",
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tui.Fill(&email, tui.EmailPrompt); err != nil {
				return err
			}
			if err := tui.Fill(&otp, tui.OTPPrompt); err != nil {
				return err
			}
			if err := tui.Fill(&password, tui.Prompt{Title: "New password", Secret: true}); err != nil {
				return err
			}
			r := cc.Store.ConfirmPasswordReset(contextOf(cmd), email, validate.SanitizeOTP(otp), password)
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit code from the email")
	cmd.Flags().StringVar(&password, "password", "", "new password (prompted when omitted)")
	return cmd
}

// newPasswordResetCmd walks through both steps with prompts.
func newPasswordResetCmd(cc *CommandContext) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:         "reset",
		Short:       "Guided password reset",
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.ShouldPrompt() {
				return evberrors.NewValidationError("guided reset needs a terminal").
					WithSuggestion("Use 'evbook password request' and 'evbook password confirm'")
			}
			ctx := contextOf(cmd)
			flow := passwordreset.New(cc.Store)

			if err := tui.Fill(&email, tui.EmailPrompt); err != nil {
				return err
			}
			flow.SetEmail(email)
			r, err := flow.SubmitEmail(ctx)
			if err != nil {
				return err
			}
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)

			otp, err := tui.Ask(tui.OTPPrompt)
			if err != nil {
				return err
			}
			flow.SetOTP(otp)
			pw, err := tui.Ask(tui.Prompt{Title: "New password", Secret: true})
			if err != nil {
				return err
			}
			flow.SetNewPassword(pw)
			confirm, err := tui.Ask(tui.Prompt{Title: "Confirm new password", Secret: true})
			if err != nil {
				return err
			}
			flow.SetConfirmPassword(confirm)

			r, err = flow.SubmitReset(ctx)
			if err != nil {
				return err
			}
			if err := cc.resultErr(r); err != nil {
				return err
			}
			cc.Println(r.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}
