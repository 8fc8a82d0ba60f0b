// Package shell provides the interactive Pick 3 session. The session owns
// the loaded grid and the current key, so repeated generate/export runs do
// not reload the file.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/klytics/pick3/internal/grid"
	"github.com/klytics/pick3/internal/output"
	"github.com/klytics/pick3/internal/pick3"
	"github.com/klytics/pick3/internal/present"
)

// Errors returned by Eval when a step is run out of order.
var (
	ErrNoGrid    = errors.New("no grid loaded, use 'load <file>' first")
	ErrNoKey     = errors.New("no key set, use 'key <0-99>' first")
	ErrNoResults = errors.New("nothing to export, run 'generate' first")
)

// Options configure a new session.
type Options struct {
	Out         io.Writer
	HistoryFile string
	ExportPath  string
	Sheet       string
}

// Session is one interactive run: at most one grid, one key and the most
// recent result.
type Session struct {
	Grid       *pick3.Grid
	GridPath   string
	Key        int
	HasKey     bool
	Last       *pick3.Result
	ExportPath string
	Sheet      string

	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	// KnownCommands is the list of session commands for completion.
	KnownCommands []string

	out io.Writer
}

// NewSession creates a new interactive session.
func NewSession(opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = present.DefaultExportName
	}
	return &Session{
		ExportPath:  exportPath,
		Sheet:       opts.Sheet,
		HistoryFile: opts.HistoryFile,
		StartTime:   time.Now(),
		KnownCommands: []string{
			"load", "show", "key", "generate", "neighbors", "export",
			"status", "history", "help", "exit", "quit",
		},
		out: out,
	}
}

// DefaultHistoryFile returns ~/.pick3/shell_history, creating the directory.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".pick3", "shell_history")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ""
	}
	return path
}

// Run starts the REPL loop. It blocks until 'exit', Ctrl+D or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pick3> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(s.buildCompleter()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	fmt.Fprintln(s.out, "Pick 3 Generator: Interactive Shell")
	fmt.Fprintln(s.out, "Type 'help' for commands, 'exit' to quit.")
	fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF, interrupt or closed by ctx
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		if line == "exit" || line == "quit" {
			fmt.Fprintf(s.out, "\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(time.Since(s.StartTime)))
			return nil
		}

		if err := s.Eval(ctx, line); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		}
	}

	return ctx.Err()
}

// Eval runs a single session command, writing its output to the session's
// writer. Errors leave the session state unchanged.
func (s *Session) Eval(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	output.Debugf("shell: %s", line)

	switch args[0] {
	case "help":
		s.printHelp()
		return nil
	case "history":
		for i, cmd := range s.CommandHistory {
			fmt.Fprintf(s.out, "  %d  %s\n", i+1, cmd)
		}
		return nil
	case "load":
		if len(args) < 2 {
			return fmt.Errorf("usage: load <file> [sheet]")
		}
		sheet := s.Sheet
		if len(args) > 2 {
			sheet = strings.Join(args[2:], " ")
		}
		return s.Load(args[1], sheet)
	case "show":
		if s.Grid == nil {
			return ErrNoGrid
		}
		present.WritePretty(s.out, present.GridTable(s.Grid))
		return nil
	case "key":
		if len(args) != 2 {
			return fmt.Errorf("usage: key <%d-%d>", pick3.MinKey, pick3.MaxKey)
		}
		return s.SetKey(args[1])
	case "generate":
		if len(args) == 2 {
			if err := s.SetKey(args[1]); err != nil {
				return err
			}
		}
		res, err := s.Generate()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, present.Summary(res))
		fmt.Fprintln(s.out)
		withKey, withoutKey := present.ResultTables(res)
		present.WritePretty(s.out, withKey)
		present.WritePretty(s.out, withoutKey)
		return nil
	case "neighbors":
		res, err := s.Generate()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, present.Summary(res))
		return nil
	case "export":
		path := s.ExportPath
		if len(args) > 1 {
			path = args[1]
		}
		written, err := s.Export(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Wrote %s (sheets %s, %s)\n", written, present.SheetWithKey, present.SheetWithoutKey)
		return nil
	case "status":
		s.printStatus()
		return nil
	}

	return fmt.Errorf("unknown command %q, type 'help' for a list", args[0])
}

// Load replaces the session grid. On failure the previous grid is kept.
func (s *Session) Load(path, sheet string) error {
	g, err := grid.Load(path, grid.Options{Sheet: sheet})
	if err != nil {
		return err
	}
	s.Grid = g
	s.GridPath = path
	s.Last = nil
	fmt.Fprintf(s.out, "Loaded %s (%d x %d)\n", path, g.Rows(), g.Cols())
	return nil
}

// SetKey parses and validates the key.
func (s *Session) SetKey(arg string) error {
	k, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("key must be a whole number, got %q", arg)
	}
	if err := pick3.ValidateKey(k); err != nil {
		return err
	}
	s.Key = k
	s.HasKey = true
	s.Last = nil
	return nil
}

// Generate runs the generator on the session grid and key and keeps the result.
func (s *Session) Generate() (pick3.Result, error) {
	if s.Grid == nil {
		return pick3.Result{}, ErrNoGrid
	}
	if !s.HasKey {
		return pick3.Result{}, ErrNoKey
	}
	res := pick3.Run(s.Grid, float64(s.Key))
	s.Last = &res
	return res, nil
}

// Export writes the most recent result to path and returns the final path.
func (s *Session) Export(path string) (string, error) {
	if s.Last == nil {
		return "", ErrNoResults
	}
	return present.Export(*s.Last, path)
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return s.KnownCommands
	}
	if len(parts) > 1 || strings.HasSuffix(input, " ") {
		return nil
	}

	var matches []string
	for _, cmd := range s.KnownCommands {
		if strings.HasPrefix(cmd, parts[0]) {
			matches = append(matches, cmd)
		}
	}
	sort.Strings(matches)
	return matches
}

func (s *Session) printStatus() {
	bold := color.New(color.Bold)
	bold.Fprintln(s.out, "Session")
	if s.Grid != nil {
		fmt.Fprintf(s.out, "  grid:    %s (%d x %d)\n", s.GridPath, s.Grid.Rows(), s.Grid.Cols())
	} else {
		fmt.Fprintln(s.out, "  grid:    (none)")
	}
	if s.HasKey {
		fmt.Fprintf(s.out, "  key:     %d\n", s.Key)
	} else {
		fmt.Fprintln(s.out, "  key:     (none)")
	}
	if s.Last != nil {
		fmt.Fprintf(s.out, "  results: %d with key, %d without key\n", len(s.Last.WithKey), len(s.Last.WithoutKey))
	}
	fmt.Fprintf(s.out, "  export:  %s\n", s.ExportPath)
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  load <file> [sheet]  load a grid (.csv, .tsv, .txt, .xlsx)")
	fmt.Fprintln(s.out, "  show                 preview the loaded grid")
	fmt.Fprintf(s.out, "  key <n>              set the key (%d-%d)\n", pick3.MinKey, pick3.MaxKey)
	fmt.Fprintln(s.out, "  generate [n]         generate combinations, optionally setting the key")
	fmt.Fprintln(s.out, "  neighbors            show the key position and its neighbors")
	fmt.Fprintln(s.out, "  export [path]        write the last results to an .xlsx workbook")
	fmt.Fprintln(s.out, "  status               show the session state")
	fmt.Fprintln(s.out, "  history              show command history")
	fmt.Fprintln(s.out, "  exit                 leave the shell")
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	files := readline.PcItemDynamic(listGridFiles)
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		switch cmd {
		case "load":
			items = append(items, readline.PcItem(cmd, files))
		default:
			items = append(items, readline.PcItem(cmd))
		}
	}
	return items
}

// listGridFiles offers loadable files in the working directory.
func listGridFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := grid.DetectFormat(e.Name()); err == nil {
			names = append(names, e.Name())
		}
	}
	return names
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
