package output

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultPageHeight is the line count above which terminal output is paged.
const DefaultPageHeight = 50

// ShouldPage returns true if output should be piped through a pager:
// stdout is a terminal and content has more than height lines.
// A height of zero or less disables paging.
func ShouldPage(content string, height int) bool {
	if height <= 0 || !isTerminal() {
		return false
	}
	return strings.Count(content, "\n") > height
}

// Show prints content, through the pager when ShouldPage says so.
func Show(content string, height int) error {
	if ShouldPage(content, height) {
		if err := Page(content); err == nil {
			return nil
		}
		Debugf("pager failed, printing directly")
	}
	_, err := fmt.Fprint(os.Stdout, content)
	return err
}

// Page pipes content through the user's preferred pager (PAGER env, or "less -R").
func Page(content string) error {
	args := []string{"less", "-R"}
	if pager := os.Getenv("PAGER"); pager != "" {
		args = strings.Fields(pager)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
