// Package watch provides the "pick3 watch" command, which regenerates the
// results every time the grid file is saved.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/pick3/internal/config"
	"github.com/klytics/pick3/internal/grid"
	"github.com/klytics/pick3/internal/output"
	"github.com/klytics/pick3/internal/pick3"
	"github.com/klytics/pick3/internal/present"
	w "github.com/klytics/pick3/internal/watch"
)

// Job is one regeneration target.
type Job struct {
	Key    int
	Sheet  string
	Output string
	Out    io.Writer
}

// Run loads path, generates the combinations for the job's key and
// exports them. A one-line summary is written to Out.
func (j Job) Run(path string) error {
	g, err := grid.Load(path, grid.Options{Sheet: j.Sheet})
	if err != nil {
		return err
	}
	res := pick3.Run(g, float64(j.Key))
	written, err := present.Export(res, j.Output)
	if err != nil {
		return output.SystemError(fmt.Errorf("could not export results: %w", err))
	}

	stamp := time.Now().Format("15:04:05")
	if !res.Found {
		color.New(color.FgYellow).Fprintf(j.Out, "%s key %d not found in %s, wrote empty %s\n", stamp, j.Key, path, written)
		return nil
	}
	color.New(color.FgGreen).Fprintf(j.Out, "%s %s: %d with key, %d without key -> %s\n",
		stamp, res.Position, len(res.WithKey), len(res.WithoutKey), written)
	return nil
}

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		key       int
		sheet     string
		out       string
		debounce  int
		noInitial bool
	)

	cmd := &cobra.Command{
		Use:   "watch <grid-file>",
		Short: "Regenerate combinations whenever the grid file changes",
		Long: `Watch a grid file and re-run generate on every save, rewriting the
.xlsx export each time. Rapid successive writes are coalesced.

Example:
  pick3 watch draws.xlsx --key 7 --output results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pick3.ValidateKey(key); err != nil {
				return err
			}
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("cannot watch %s: %w", args[0], err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Output.Path
			}
			if sheet == "" {
				sheet = cfg.Grid.Sheet
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = cfg.Watch.DebounceMs
			}

			watcher, err := w.New(w.Config{
				Path:       args[0],
				Debounce:   debounce,
				RunOnStart: !noInitial,
			})
			if err != nil {
				return err
			}

			job := Job{Key: key, Sheet: sheet, Output: out, Out: cmd.OutOrStdout()}
			watcher.Handler = job.Run

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for key %d, exporting to %s\n", args[0], key, out)
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					fmt.Fprintln(cmd.OutOrStdout(), "\nStopping watcher...")
					cancel()
				case <-ctx.Done():
				}
			}()

			if err := watcher.Start(ctx); err != nil {
				return output.SystemError(err)
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.WriteJSON(cmd.OutOrStdout(), "watch", watcher.Events())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&key, "key", "k", -1, fmt.Sprintf("Key number to look for (%d-%d)", pick3.MinKey, pick3.MaxKey))
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an .xlsx grid (default: first sheet)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Export path (default: output.path from config)")
	cmd.Flags().IntVar(&debounce, "debounce", w.DefaultDebounce, "Debounce interval in milliseconds")
	cmd.Flags().BoolVar(&noInitial, "no-initial", false, "Wait for the first change instead of generating immediately")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
