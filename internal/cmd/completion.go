package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(evbook completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ evbook completion bash > /etc/bash_completion.d/evbook
  # macOS:
  $ evbook completion bash > $(brew --prefix)/etc/bash_completion.d/evbook

Zsh:
  $ evbook completion zsh > "${fpath[1]}/_evbook"

Fish:
  $ evbook completion fish > ~/.config/fish/completions/evbook.fish

PowerShell:
  PS> evbook completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
