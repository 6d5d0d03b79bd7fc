package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/tui"
)

func newUICmd(cc *CommandContext) *cobra.Command {
	var start, verifyToken string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive terminal interface",
		Long: `Open the full-screen interface with login, registration, password reset,
the user dashboard and the admin dashboard.

Examples:
  evbook ui
  evbook ui --start /admin/dashboard
  evbook ui --verify-token 3f2c...`,
		Annotations: public(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verifyToken != "" {
				start = guard.PathVerifyEmail
			}
			return cc.runUI(cmd, start, verifyToken)
		},
	}

	cmd.Flags().StringVar(&start, "start", guard.PathHome, "first screen, e.g. /login, /user/dashboard, /admin/dashboard")
	cmd.Flags().StringVar(&verifyToken, "verify-token", "", "open email verification with this token")
	return cmd
}

func (cc *CommandContext) runUI(cmd *cobra.Command, start, verifyToken string) error {
	return tui.Run(contextOf(cmd), cc.Store, cc.Client, tui.Options{
		NotificationTTL: cc.Config.UI.NotificationTTL,
		NavigateDelay:   cc.Config.UI.NavigateDelay,
		StartPath:       start,
		VerifyToken:     verifyToken,
		Logger:          cc.Logger,
	})
}
