package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCmd generates shell completion scripts.
func completionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate completion scripts for your shell.

  # Bash (add to ~/.bashrc)
  eval "$(skillgraph completion bash)"

  # Zsh (add to ~/.zshrc)
  eval "$(skillgraph completion zsh)"

  # Fish
  skillgraph completion fish | source

  # PowerShell
  skillgraph completion powershell | Out-String | Invoke-Expression`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Run: func(cmd *cobra.Command, args []string) {
			switch args[0] {
			case "bash":
				_ = rootCmd.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				_ = rootCmd.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				_ = rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				_ = rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}

	return cmd
}

// nodeCompletionFunc completes node ids from the extended graph.
func nodeCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	g, _ := loadBuilder().Build(true)
	var completions []string
	for _, n := range g.Nodes {
		if strings.HasPrefix(n.ID, toComplete) {
			completions = append(completions, n.ID+"\t"+n.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
