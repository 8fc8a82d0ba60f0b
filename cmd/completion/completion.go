// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for pick3.

Install instructions:
  Bash:       pick3 completion bash > /etc/bash_completion.d/pick3
              echo 'source <(pick3 completion bash)' >> ~/.bashrc
  Zsh:        pick3 completion zsh > ~/.zsh/completions/_pick3
  Fish:       pick3 completion fish > ~/.config/fish/completions/pick3.fish
  PowerShell: pick3 completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# pick3 bash completion")
				fmt.Fprintln(out, "# Install: pick3 completion bash > /etc/bash_completion.d/pick3")
				fmt.Fprintln(out, "# Or:      echo 'source <(pick3 completion bash)' >> ~/.bashrc")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# pick3 zsh completion")
				fmt.Fprintln(out, "# Install: pick3 completion zsh > ~/.zsh/completions/_pick3")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# pick3 fish completion")
				fmt.Fprintln(out, "# Install: pick3 completion fish > ~/.config/fish/completions/pick3.fish")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# pick3 PowerShell completion")
				fmt.Fprintln(out, "# Install: pick3 completion powershell >> $PROFILE")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
