package grid

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/xuri/excelize/v2"

	"github.com/klytics/pick3/internal/formats/xlsx"
	"github.com/klytics/pick3/internal/pick3"
)

var nan = math.NaN()

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertCells(t *testing.T, g *pick3.Grid, want [][]float64) {
	t.Helper()
	if diff := cmp.Diff(want, g.Values(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "grid.csv", "1,2,3\n4,7,6\n8,5,9\n")
	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2, 3}, {4, 7, 6}, {8, 5, 9}})
}

func TestLoadTSV(t *testing.T) {
	path := writeFile(t, "grid.tsv", "1\t2\n3\t4\n")
	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2}, {3, 4}})
}

func TestLoadTextSniffsDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"semicolon", "1;2\n3;4\n"},
		{"whitespace", "1  2\n 3 4\n"},
		{"tab", "1\t2\n3\t4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Load(writeFile(t, "grid.txt", tt.content), Options{})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			assertCells(t, g, [][]float64{{1, 2}, {3, 4}})
		})
	}
}

func TestLoadBlankAndRaggedCells(t *testing.T) {
	path := writeFile(t, "grid.csv", "1,,3\n4\n\n,,\n")
	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, nan, 3}, {4, nan, nan}})
}

func TestLoadDecimalsAndSpaces(t *testing.T) {
	path := writeFile(t, "grid.csv", " 1.5, 2 \n-3,4e1\n")
	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1.5, 2}, {-3, 40}})
}

func TestLoadNonNumericCell(t *testing.T) {
	path := writeFile(t, "grid.csv", "1,2\n3,abc\n")
	_, err := Load(path, Options{})
	if err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	var cellErr *CellError
	if !errors.As(err, &cellErr) {
		t.Fatalf("expected *CellError, got %T", err)
	}
	if cellErr.Row != 1 || cellErr.Col != 1 || cellErr.Value != "abc" {
		t.Errorf("unexpected cell error %+v", cellErr)
	}
}

func TestLoadBrokenQuotes(t *testing.T) {
	path := writeFile(t, "grid.csv", "1,\"2\n")
	if _, err := Load(path, Options{}); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/grid.csv", Options{})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("grid.pdf", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFormatOverride(t *testing.T) {
	path := writeFile(t, "grid.data", "5,6\n")
	g, err := Load(path, Options{Format: FormatCSV})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{5, 6}})
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.xlsx")
	err := xlsx.WriteFile([]xlsx.Table{
		{Name: "Numbers", Rows: [][]any{{1, 2, 3}, {4, 7, 6}}},
		{Name: "Other", Rows: [][]any{{9}}},
	}, path)
	if err != nil {
		t.Fatal(err)
	}

	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2, 3}, {4, 7, 6}})

	g, err = Load(path, Options{Sheet: "Other"})
	if err != nil {
		t.Fatalf("Load with sheet failed: %v", err)
	}
	assertCells(t, g, [][]float64{{9}})

	if _, err := Load(path, Options{Sheet: "Missing"}); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestLoadReader(t *testing.T) {
	g, err := LoadReader(strings.NewReader("1,2\n3,4\n"), Options{Format: FormatCSV})
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2}, {3, 4}})

	if _, err := LoadReader(strings.NewReader("1"), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat without a format, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", ".CSV", "xlsx", "tsv", "txt"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseFormat("json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFromRowsEmpty(t *testing.T) {
	g, err := FromRows(nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Rows() != 0 {
		t.Errorf("expected empty grid, got %d rows", g.Rows())
	}
}

func writeStyledXLSX(t *testing.T, numFmt int, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	end, _ := excelize.CoordinatesToCellName(len(rows[0]), len(rows))
	if err := f.SetCellStyle("Sheet1", "A1", end, style); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadXLSXIgnoresNumberFormats(t *testing.T) {
	// "0.00" displays 7.004 as 7.00; the stored value must be used.
	path := writeStyledXLSX(t, 2, [][]any{
		{1, 2, 3},
		{4, 7.004, 6},
		{8, 5, 9},
	})
	g, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2, 3}, {4, 7.004, 6}, {8, 5, 9}})

	if res := pick3.Run(g, 7); res.Found {
		t.Errorf("key 7 must not match a cell holding 7.004, found at %s", res.Position)
	}

	// "#,##0" displays 1234 as 1,234.
	path = writeStyledXLSX(t, 3, [][]any{{1234, 5}, {6, 7}})
	g, err = Load(path, Options{})
	if err != nil {
		t.Fatalf("thousands-separated cells should load: %v", err)
	}
	assertCells(t, g, [][]float64{{1234, 5}, {6, 7}})
}

func TestLoadCSVWithByteOrderMark(t *testing.T) {
	g, err := LoadReader(strings.NewReader("\xEF\xBB\xBF7,1,2\n3,4,5\n"), Options{Format: FormatCSV})
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	assertCells(t, g, [][]float64{{7, 1, 2}, {3, 4, 5}})

	path := writeFile(t, "bom.txt", "\xEF\xBB\xBF1;2\n3;4\n")
	g, err = Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertCells(t, g, [][]float64{{1, 2}, {3, 4}})
}
