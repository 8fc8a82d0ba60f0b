// Package doctor provides the "pick3 doctor" command for checking that the
// configuration and export location are usable.
package doctor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/pick3/internal/config"
	"github.com/klytics/pick3/internal/formats/xlsx"
	"github.com/klytics/pick3/internal/output"
	"github.com/klytics/pick3/internal/pick3"
	"github.com/klytics/pick3/internal/present"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and export location",
		Long:  "Run diagnostic checks to verify pick3 can read its config and write results.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			checks := RunChecks(cfg)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.WriteJSON(cmd.OutOrStdout(), "doctor", checks)
			}

			errCount := Print(cmd.OutOrStdout(), checks)
			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

// Print writes checks as a report and returns the number of errors.
func Print(w io.Writer, checks []Check) int {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, "pick3 doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	okCount, warnCount, errCount := 0, 0, 0
	for _, c := range checks {
		var icon string
		switch c.Status {
		case "ok":
			icon = green("✓")
			okCount++
		case "warning":
			icon = yellow("!")
			warnCount++
		case "error":
			icon = red("✗")
			errCount++
		}
		fmt.Fprintf(w, "  %s %s: %s\n", icon, c.Name, c.Message)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)
	return errCount
}

// RunChecks inspects the runtime, config file, export directory and the
// workbook writer.
func RunChecks(cfg *config.Config) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	configFile := config.ConfigPath()
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: configFile})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: "Not found, using defaults (create one with 'pick3 config set')",
		})
	}

	for _, issue := range config.Validate() {
		checks = append(checks, Check{Name: "Config " + issue.Key, Status: issue.Severity, Message: issue.Message})
	}

	checks = append(checks, checkExportDir(cfg.Output.Path))
	checks = append(checks, checkWorkbook())

	if pager := os.Getenv("PAGER"); pager != "" {
		checks = append(checks, Check{Name: "Pager", Status: "ok", Message: pager})
	} else if _, err := exec.LookPath("less"); err == nil {
		checks = append(checks, Check{Name: "Pager", Status: "ok", Message: "less"})
	} else {
		checks = append(checks, Check{
			Name:    "Pager",
			Status:  "warning",
			Message: "No pager found, long tables are printed directly",
		})
	}

	return checks
}

func checkExportDir(path string) Check {
	if path == "" {
		path = present.DefaultExportName
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Check{Name: "Export Directory", Status: "ok", Message: dir + " will be created on first export"}
	}
	if err != nil || !info.IsDir() {
		return Check{Name: "Export Directory", Status: "error", Message: fmt.Sprintf("%s is not a directory", dir)}
	}

	probe, err := os.CreateTemp(dir, ".pick3-doctor-*")
	if err != nil {
		return Check{Name: "Export Directory", Status: "error", Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return Check{Name: "Export Directory", Status: "ok", Message: dir}
}

// checkWorkbook writes and re-reads a small export in memory.
func checkWorkbook() Check {
	res := pick3.Run(pick3.MustGrid([][]float64{{1, 2}, {3, 4}}), 1)

	var buf bytes.Buffer
	if err := present.ExportTo(res, &buf); err != nil {
		return Check{Name: "Workbook Writer", Status: "error", Message: err.Error()}
	}
	wb, err := xlsx.Read(&buf)
	if err != nil {
		return Check{Name: "Workbook Writer", Status: "error", Message: err.Error()}
	}
	if len(wb.Sheets) != 2 {
		return Check{Name: "Workbook Writer", Status: "error", Message: fmt.Sprintf("expected 2 sheets, got %d", len(wb.Sheets))}
	}
	return Check{Name: "Workbook Writer", Status: "ok", Message: "xlsx export round-trips"}
}
