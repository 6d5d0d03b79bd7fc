package cmd

import (
	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/sandbox"
)

func newSandboxCmd(cc *CommandContext) *cobra.Command {
	var (
		addr string
		demo bool
	)

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local stand-in for the reservation API",
		Long: `Serve the reservation API from memory so evbook can be tried without the
hosted service. Data is lost when the sandbox stops.

Verification tokens and password-reset codes are written to the log
instead of being emailed. The API document is served at /api/openapi.yaml.

Example:
  evbook sandbox --addr 127.0.0.1:5050
  EVBOOK_API_URL=http://127.0.0.1:5050/api evbook login --admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := cc.Config.Sandbox
			if addr != "" {
				cfg.Addr = addr
			}

			opts := []sandbox.Option{sandbox.WithLogger(cc.Logger)}
			if demo {
				opts = append(opts, sandbox.WithDemoData())
			}
			srv, err := sandbox.New(sandbox.Config{
				Addr:          cfg.Addr,
				JWTSecret:     cfg.JWTSecret,
				AdminEmail:    cfg.AdminEmail,
				AdminPassword: cfg.AdminPassword,
			}, opts...)
			if err != nil {
				return err
			}
			for _, f := range srv.Drift() {
				cc.Logger.Warn("api contract drift", "code", f.Code, "route", f.Method+" "+f.Path)
			}

			cc.Notice("Sandbox API on http://%s/api (admin: %s)", cfg.Addr, cfg.AdminEmail)
			cc.Notice("Point evbook at it with EVBOOK_API_URL=http://%s/api", cfg.Addr)
			return srv.Start(contextOf(cmd))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from sandbox.addr)")
	cmd.Flags().BoolVar(&demo, "demo", true, "seed demo stations and slots")
	return cmd
}
