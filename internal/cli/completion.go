package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/pkg/scene"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zenposter.

Bash:
  $ source <(zenposter completion bash)

Zsh:
  $ zenposter completion zsh > "${fpath[1]}/_zenposter"

Fish:
  $ zenposter completion fish | source

PowerShell:
  PS> zenposter completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
}

// completeModes suggests mode slugs for the first positional argument.
func completeModes(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]cobra.Completion, 0, len(scene.AllModes))
	for _, id := range scene.AllModes {
		out = append(out, id.String())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
