package present

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klytics/pick3/internal/formats/xlsx"
	"github.com/klytics/pick3/internal/pick3"
)

// DefaultExportName is the file name results are exported under.
const DefaultExportName = "pick3_results.xlsx"

// Sheet names of the exported workbook.
const (
	SheetWithKey    = "With_Key"
	SheetWithoutKey = "Without_Key"
)

// Workbook lays res out as the two export sheets.
func Workbook(res pick3.Result) []xlsx.Table {
	return []xlsx.Table{
		sheet(SheetWithKey, res.WithKey),
		sheet(SheetWithoutKey, res.WithoutKey),
	}
}

func sheet(name string, combos []pick3.Combination) xlsx.Table {
	t := xlsx.Table{
		Name:   name,
		Header: pick3.Columns,
		Rows:   make([][]any, len(combos)),
	}
	for i, c := range combos {
		t.Rows[i] = []any{c[0], c[1], c[2]}
	}
	return t
}

// Export writes the results workbook to path, creating parent directories.
// A path without an .xlsx extension gets one appended. The final path is returned.
func Export(res pick3.Result, path string) (string, error) {
	if path == "" {
		path = DefaultExportName
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("could not create %s: %w", dir, err)
		}
	}
	if err := xlsx.WriteFile(Workbook(res), path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportTo streams the results workbook to w.
func ExportTo(res pick3.Result, w io.Writer) error {
	return xlsx.Write(Workbook(res), w)
}
