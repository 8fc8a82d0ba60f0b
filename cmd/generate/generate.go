// Package generate provides the generate and neighbors commands.
package generate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/pick3/internal/config"
	"github.com/klytics/pick3/internal/grid"
	"github.com/klytics/pick3/internal/output"
	"github.com/klytics/pick3/internal/pick3"
	"github.com/klytics/pick3/internal/present"
)

// gridFlags are the flags shared by every command that reads a grid.
type gridFlags struct {
	key    int
	sheet  string
	format string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.key, "key", "k", -1, fmt.Sprintf("Key number to look for (%d-%d)", pick3.MinKey, pick3.MaxKey))
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet to read from an .xlsx grid (default: first sheet)")
	cmd.Flags().StringVar(&f.format, "format", "", "Grid format: csv, tsv, txt, xlsx (default: from extension; required for stdin)")
	_ = cmd.MarkFlagRequired("key")
}

func (f *gridFlags) load(cmd *cobra.Command, path string, cfg *config.Config) (*pick3.Grid, error) {
	if err := pick3.ValidateKey(f.key); err != nil {
		return nil, err
	}

	opts := grid.Options{Sheet: f.sheet}
	if opts.Sheet == "" {
		opts.Sheet = cfg.Grid.Sheet
	}
	if f.format != "" {
		format, err := grid.ParseFormat(f.format)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}

	g, err := grid.LoadArg(path, opts, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	output.Debugf("loaded %s: %d x %d", path, g.Rows(), g.Cols())
	return g, nil
}

type generateJSONOutput struct {
	Grid   string             `json:"grid"`
	Result present.ResultJSON `json:"result"`
	Export string             `json:"export,omitempty"`
}

// NewCommand returns the generate command.
func NewCommand() *cobra.Command {
	var (
		gf       gridFlags
		out      string
		noExport bool
		preview  bool
		csvOut   bool
		mdOut    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <grid-file|->",
		Short: "Generate Pick 3 combinations around a key",
		Long: `Finds the first cell equal to --key (row by row), collects the values of
its up to 8 neighbors and prints:

  WITH key     (key, a, b) for every pair of neighbors
  WITHOUT key  (a, b, c) for every triple of neighbors

Both tables are exported to pick3_results.xlsx (sheets With_Key and
Without_Key) unless --no-export is given. A key that is not in the grid
yields empty tables.

Examples:
  pick3 generate grid.csv --key 7
  pick3 generate numbers.xlsx --sheet Draws -k 2 --output out/draws.xlsx
  cat grid.csv | pick3 generate - --format csv -k 5 --csv --no-export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			g, err := gf.load(cmd, args[0], cfg)
			if err != nil {
				return err
			}

			res := pick3.Run(g, float64(gf.key))
			output.Debugf("key %d found=%v neighbors=%d", gf.key, res.Found, len(res.Neighbors))

			exported := ""
			if !noExport {
				path := out
				if path == "" {
					path = cfg.Output.Path
				}
				if exported, err = present.Export(res, path); err != nil {
					return output.SystemError(fmt.Errorf("could not export results: %w", err))
				}
			}

			format, err := output.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			switch {
			case jsonFlag:
				format = output.FormatJSON
			case csvOut:
				format = output.FormatCSV
			case mdOut:
				format = output.FormatMarkdown
			}

			if format == output.FormatJSON {
				return output.WriteJSON(cmd.OutOrStdout(), "generate", generateJSONOutput{
					Grid:   args[0],
					Result: present.JSON(res),
					Export: exported,
				})
			}

			var b strings.Builder
			if err := render(&b, format, g, res, preview); err != nil {
				return err
			}
			if exported != "" {
				color.New(color.FgGreen).Fprintf(&b, "Wrote %s\n", exported)
			}
			if cmd.OutOrStdout() != os.Stdout {
				_, err := io.WriteString(cmd.OutOrStdout(), b.String())
				return err
			}
			return output.Show(b.String(), cfg.Output.PageHeight)
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Export path (default: output.path from config, pick3_results.xlsx)")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Do not write the .xlsx export")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the grid before the results")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Output tables as CSV")
	cmd.Flags().BoolVar(&mdOut, "markdown", false, "Output tables as Markdown")
	cmd.MarkFlagsMutuallyExclusive("csv", "markdown")

	return cmd
}

func render(w io.Writer, format output.Format, g *pick3.Grid, res pick3.Result, preview bool) error {
	withKey, withoutKey := present.ResultTables(res)
	tables := []present.Table{withKey, withoutKey}
	if preview {
		tables = append([]present.Table{present.GridTable(g)}, tables...)
	}

	switch format {
	case output.FormatCSV:
		for _, t := range tables {
			fmt.Fprintf(w, "# %s\n", t.Title)
			if err := present.WriteCSV(w, t); err != nil {
				return err
			}
		}
	case output.FormatMarkdown:
		for _, t := range tables {
			if err := present.WriteMarkdown(w, t); err != nil {
				return err
			}
		}
	default:
		fmt.Fprintln(w, present.Summary(res))
		fmt.Fprintln(w)
		for _, t := range tables {
			present.WritePretty(w, t)
		}
	}
	return nil
}

type neighborsJSONOutput struct {
	Key       int              `json:"key"`
	Found     bool             `json:"found"`
	Position  *pick3.Position  `json:"position,omitempty"`
	Neighbors []present.Number `json:"neighbors"`
}

// NewNeighborsCommand returns the neighbors command.
func NewNeighborsCommand() *cobra.Command {
	var gf gridFlags

	cmd := &cobra.Command{
		Use:   "neighbors <grid-file|->",
		Short: "Show where a key is and which numbers surround it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			g, err := gf.load(cmd, args[0], cfg)
			if err != nil {
				return err
			}

			res := pick3.Run(g, float64(gf.key))
			if jsonFlag {
				return output.WriteJSON(cmd.OutOrStdout(), "neighbors", neighborsJSONOutput{
					Key:       gf.key,
					Found:     res.Found,
					Position:  res.Position,
					Neighbors: present.JSON(res).Neighbors,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), present.Summary(res))
			return nil
		},
	}

	gf.register(cmd)
	return cmd
}
