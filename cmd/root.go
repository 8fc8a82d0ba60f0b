// Package cmd contains all CLI commands for the pick3 binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/pick3/cmd/completion"
	cmdconfig "github.com/klytics/pick3/cmd/config"
	"github.com/klytics/pick3/cmd/doctor"
	"github.com/klytics/pick3/cmd/generate"
	cmdgrid "github.com/klytics/pick3/cmd/grid"
	"github.com/klytics/pick3/cmd/shell"
	"github.com/klytics/pick3/cmd/version"
	cmdwatch "github.com/klytics/pick3/cmd/watch"
	"github.com/klytics/pick3/internal/config"
	"github.com/klytics/pick3/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pick3",
		Short: "Generate Pick 3 combinations from a number grid",
		Long: `pick3 finds a key number in a grid, collects its up to 8 surrounding
numbers and lists every 3-number combination built from them:

  with key     the key plus 2 of its neighbors
  without key  3 of its neighbors

Grids are header-less .csv, .tsv, .txt or .xlsx files. Results are printed
as tables and exported to an .xlsx workbook with the sheets With_Key and
Without_Key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.SetVerbose(verbose)

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if noColor || !cfg.Output.Color {
				color.NoColor = true
			}
			output.Debugf("config loaded from %s", config.ConfigPath())
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	rootCmd.AddCommand(generate.NewCommand())
	rootCmd.AddCommand(generate.NewNeighborsCommand())
	rootCmd.AddCommand(cmdgrid.NewCommand())
	rootCmd.AddCommand(shell.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and exits with the matching status code on error.
func Execute() {
	rootCmd := NewRootCommand()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	code := output.ExitCode(err)
	if jsonOutput {
		output.PrintJSONError(cmd.Name(), err, code)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(code)
}
