package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/config"
)

func newConfigCmd(cc *CommandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
EVBOOK_* environment variables and flags. Secrets are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.Output(configView(*cc.Config))
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := cc.Viper.ConfigFileUsed(); used != "" {
				cc.Println(used)
				return nil
			}
			cc.Println(config.Dir() + "/config.yaml (not found, using defaults)")
			return nil
		},
	}

	cmd.AddCommand(show, path)
	return cmd
}

type configView config.Config

// Table implements ux.Tabular
func (c configView) Table() ([]string, [][]string) {
	return []string{"Key", "Value"}, [][]string{
		{"api.url", c.API.URL},
		{"api.timeout", c.API.Timeout.String()},
		{"storage.driver", c.Storage.Driver},
		{"storage.path", orDash(c.Storage.Path)},
		{"log.level", c.Log.Level},
		{"log.format", c.Log.Format},
		{"ui.notification_ttl", c.UI.NotificationTTL.String()},
		{"ui.navigate_delay", c.UI.NavigateDelay.String()},
		{"sandbox.addr", c.Sandbox.Addr},
		{"sandbox.admin_email", c.Sandbox.AdminEmail},
		{"sandbox.jwt_secret", secretState(c.Sandbox.JWTSecret)},
	}
}

func secretState(s string) string {
	if s == "" {
		return "unset"
	}
	return "set"
}
