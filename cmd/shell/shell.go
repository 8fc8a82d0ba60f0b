// Package shell provides the "pick3 shell" interactive REPL command.
package shell

import (
	"github.com/spf13/cobra"

	"github.com/klytics/pick3/internal/config"
	shellpkg "github.com/klytics/pick3/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd  string
		gridPath string
		sheet    string
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive Pick 3 shell",
		Long: `Start an interactive REPL that keeps a grid and a key loaded between
commands, so you can try several keys against the same file.

Example session:
  pick3> load draws.xlsx
  pick3> key 7
  pick3> generate
  pick3> export results.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if sheet == "" {
				sheet = cfg.Grid.Sheet
			}

			opts := shellpkg.Options{
				Out:        cmd.OutOrStdout(),
				ExportPath: cfg.Output.Path,
				Sheet:      sheet,
			}
			if cfg.Shell.History {
				opts.HistoryFile = shellpkg.DefaultHistoryFile()
			}
			session := shellpkg.NewSession(opts)

			if gridPath != "" {
				if err := session.Load(gridPath, sheet); err != nil {
					return err
				}
			}
			if evalCmd != "" {
				return session.Eval(cmd.Context(), evalCmd)
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	cmd.Flags().StringVar(&gridPath, "grid", "", "Grid file to load on start")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Default sheet for .xlsx grids")
	return cmd
}
