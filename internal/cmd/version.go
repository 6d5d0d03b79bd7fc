package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evbook/evbook/internal/version"
)

func newVersionCmd(cc *CommandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()

			switch {
			case cc.machine():
				return cc.Output(info)
			case verbose:
				fmt.Fprintln(cc.Out, info.String())
			default:
				fmt.Fprintf(cc.Out, "evbook %s\n", info.Short())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed version information")
	return cmd
}
