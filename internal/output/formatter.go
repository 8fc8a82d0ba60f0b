// Package output provides formatting, logging and exit-code helpers shared
// by the CLI commands.
package output

import (
	"fmt"
	"strings"
)

// Format represents an output format.
type Format int

const (
	// FormatText is a colored, aligned table.
	FormatText Format = iota
	// FormatJSON is the JSON result envelope.
	FormatJSON
	// FormatCSV is comma-separated values.
	FormatCSV
	// FormatMarkdown is a GFM table.
	FormatMarkdown
)

var formatNames = map[Format]string{
	FormatText:     "text",
	FormatJSON:     "json",
	FormatCSV:      "csv",
	FormatMarkdown: "markdown",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a config or flag value to a Format. "md" is accepted
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "table":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (expected text, json, csv or markdown)", s)
}
