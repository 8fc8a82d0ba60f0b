package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/klytics/pick3/internal/formats/xlsx"
)

func TestJobRun(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "grid.csv")
	if err := os.WriteFile(gridPath, []byte("1,2,3\n4,7,6\n8,5,9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	job := Job{Key: 7, Output: filepath.Join(dir, "out.xlsx"), Out: &buf}
	if err := job.Run(gridPath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "28 with key, 56 without key") {
		t.Errorf("unexpected summary %q", buf.String())
	}

	wb, err := xlsx.ReadFile(job.Output)
	if err != nil {
		t.Fatalf("export not readable: %v", err)
	}
	if len(wb.Sheets) != 2 {
		t.Errorf("expected 2 sheets, got %d", len(wb.Sheets))
	}
}

func TestJobRunKeyNotFound(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "grid.csv")
	os.WriteFile(gridPath, []byte("1,2\n"), 0644)

	var buf bytes.Buffer
	job := Job{Key: 9, Output: filepath.Join(dir, "out.xlsx"), Out: &buf}
	if err := job.Run(gridPath); err != nil {
		t.Fatalf("key not found should not fail: %v", err)
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("unexpected summary %q", buf.String())
	}
}

func TestJobRunBadGrid(t *testing.T) {
	dir := t.TempDir()
	gridPath := filepath.Join(dir, "grid.csv")
	os.WriteFile(gridPath, []byte("1,x\n"), 0644)

	job := Job{Key: 1, Output: filepath.Join(dir, "out.xlsx"), Out: &bytes.Buffer{}}
	if err := job.Run(gridPath); err == nil {
		t.Fatal("expected error for malformed grid")
	}
	if _, err := os.Stat(job.Output); !os.IsNotExist(err) {
		t.Error("no export should be written for a malformed grid")
	}
}

func TestWatchRejectsBadKey(t *testing.T) {
	cmd := NewCommand()
	cmd.SetArgs([]string{"grid.csv", "--key", "150"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected key range error")
	}
}
