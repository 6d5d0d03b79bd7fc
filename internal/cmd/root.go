package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/domain"
	evberrors "github.com/evbook/evbook/internal/errors"
	"github.com/evbook/evbook/internal/guard"
	"github.com/evbook/evbook/internal/tui"
)

// annotationStandalone marks commands that need no configuration.
const annotationStandalone = "evbook.standalone"

// ExecuteContext builds the command tree and runs it with ctx.
func ExecuteContext(ctx context.Context) error {
	cc := NewCommandContext(nil, nil)
	defer cc.Close()
	return NewRootCmd(cc).ExecuteContext(ctx)
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// NewRootCmd builds the evbook command tree around cc.
func NewRootCmd(cc *CommandContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "evbook",
		Short: "Book EV charging slots from the terminal",
		Long: `evbook signs you in to the EV-charging reservation service and lets you
browse stations, book charging slots and manage your bookings.

Administrators can approve or reject bookings, manage stations and slots,
and block or unblock user accounts.

Run 'evbook' in a terminal, or 'evbook ui', for the interactive interface.`,
		Annotations:   public(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.ShouldPrompt() {
				return cmd.Help()
			}
			return cc.runUI(cmd, guard.PathHome, "")
		},
	}
	root.SetOut(cc.Out)
	root.SetErr(cc.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&cc.ConfigPath, "config", "", "config file (default is $HOME/.evbook/config.yaml)")
	flags.StringVarP(&cc.Format, "format", "f", "text", "output format: text, json, yaml, csv")
	flags.BoolVar(&cc.NoColor, "no-color", false, "disable colored output")
	flags.String("api-url", "", "reservation API base URL")
	flags.String("storage-driver", "", "session storage: file, sqlite, memory")
	flags.String("storage-path", "", "session storage location")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	for key, flag := range map[string]string{
		"api.url":        "api-url",
		"storage.driver": "storage-driver",
		"storage.path":   "storage-path",
		"log.level":      "log-level",
	} {
		_ = cc.Viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newLoginCmd(cc),
		newLogoutCmd(cc),
		newStatusCmd(cc),
		newRegisterCmd(cc),
		newVerifyEmailCmd(cc),
		newPasswordCmd(cc),
		newProfileCmd(cc),
		newStationsCmd(cc),
		newBookingsCmd(cc),
		newAdminCmd(cc),
		newUICmd(cc),
		newSandboxCmd(cc),
		newDoctorCmd(cc),
		newConfigCmd(cc),
		newVersionCmd(cc),
		newCompletionCmd(root),
	)
	return root
}

// prepare loads configuration and, for commands that carry a capability,
// restores the session and applies the route guard.
func (cc *CommandContext) prepare(cmd *cobra.Command) error {
	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}
	if err := cc.loadConfig(); err != nil {
		return err
	}
	if _, ok := cmd.Annotations[guard.AnnotationCapability]; !ok {
		return nil
	}

	ctx := contextOf(cmd)
	if err := cc.connect(ctx); err != nil {
		return err
	}
	sess := cc.Store.Hydrate(ctx)

	capability := guard.CapabilityOf(cmd.Annotations)
	if guard.Check(sess, capability) == guard.DecisionRedirectLogin {
		if capability == domain.CapabilityAdministrative && sess.IsAuthenticated() {
			return evberrors.NewAdminRequiredError()
		}
		return evberrors.NewLoginRequiredError()
	}
	return nil
}

func public() map[string]string        { return guard.Require(domain.CapabilityPublic) }
func authenticated() map[string]string { return guard.Require(domain.CapabilityAuthenticated) }
func administrative() map[string]string {
	return guard.Require(domain.CapabilityAdministrative)
}
