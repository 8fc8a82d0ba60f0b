// Package grid provides the "pick3 grid" commands for inspecting grid files.
package grid

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/pick3/internal/config"
	"github.com/klytics/pick3/internal/grid"
	"github.com/klytics/pick3/internal/output"
	"github.com/klytics/pick3/internal/present"
)

// NewCommand returns the grid command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Inspect grid files",
	}
	cmd.AddCommand(newShowCommand())
	return cmd
}

type showJSONOutput struct {
	File  string             `json:"file"`
	Rows  int                `json:"rows"`
	Cols  int                `json:"cols"`
	Cells [][]present.Number `json:"cells"`
}

func newShowCommand() *cobra.Command {
	var (
		sheet  string
		format string
		csvOut bool
	)

	cmd := &cobra.Command{
		Use:   "show <grid-file|->",
		Short: "Print the grid as it will be searched",
		Long: `Load a grid file and print it. Blank cells are shown empty and are never
matched by a key.

Examples:
  pick3 grid show draws.xlsx --sheet March
  pick3 grid show numbers.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts := grid.Options{Sheet: sheet}
			if opts.Sheet == "" {
				opts.Sheet = cfg.Grid.Sheet
			}
			if format != "" {
				if opts.Format, err = grid.ParseFormat(format); err != nil {
					return err
				}
			}

			g, err := grid.LoadArg(args[0], opts, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if jsonFlag {
				res := showJSONOutput{File: args[0], Rows: g.Rows(), Cols: g.Cols(), Cells: [][]present.Number{}}
				for _, row := range g.Values() {
					cells := make([]present.Number, len(row))
					for i, v := range row {
						cells[i] = present.Number(v)
					}
					res.Cells = append(res.Cells, cells)
				}
				return output.WriteJSON(cmd.OutOrStdout(), "grid show", res)
			}

			t := present.GridTable(g)
			if csvOut {
				return present.WriteCSV(cmd.OutOrStdout(), t)
			}
			t.Title = fmt.Sprintf("%s (%d x %d)", args[0], g.Rows(), g.Cols())
			present.WritePretty(cmd.OutOrStdout(), t)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an .xlsx grid (default: first sheet)")
	cmd.Flags().StringVar(&format, "format", "", "Grid format: csv, tsv, txt, xlsx (default: from extension)")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Output the grid as CSV")
	return cmd
}
