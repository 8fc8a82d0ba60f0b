package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatText,
		"text":     FormatText,
		"JSON":     FormatJSON,
		"csv":      FormatCSV,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatString(t *testing.T) {
	if FormatMarkdown.String() != "markdown" {
		t.Errorf("unexpected name %q", FormatMarkdown.String())
	}
	if !strings.HasPrefix(Format(42).String(), "Format(") {
		t.Errorf("unexpected name %q", Format(42).String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, "generate", map[string]int{"rows": 3}); err != nil {
		t.Fatal(err)
	}

	var res JSONResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.OK || res.Command != "generate" {
		t.Errorf("unexpected envelope %+v", res)
	}
}

func TestShouldPageDisabled(t *testing.T) {
	if ShouldPage(strings.Repeat("x\n", 100), 0) {
		t.Error("height 0 should disable paging")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitOK {
		t.Error("nil error should map to ExitOK")
	}
	if ExitCode(errors.New("bad flag")) != ExitUserError {
		t.Error("plain errors should map to ExitUserError")
	}
	wrapped := fmt.Errorf("export: %w", SystemError(errors.New("disk full")))
	if ExitCode(wrapped) != ExitSystemError {
		t.Error("wrapped system errors should map to ExitSystemError")
	}
	if SystemError(nil) != nil {
		t.Error("SystemError(nil) should be nil")
	}
}
