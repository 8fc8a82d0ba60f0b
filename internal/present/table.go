// Package present renders grids and Pick 3 results as terminal tables,
// CSV, Markdown and .xlsx workbooks.
package present

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/pick3/internal/pick3"
)

// Table is a titled block of text cells.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// Index prefixes each row with its zero-based number, like a data frame view.
	Index bool `json:"-"`
}

const maxColWidth = 40

// FormatNumber renders v in its shortest form: 7 rather than 7.000000.
// NaN renders as an empty string.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GridTable returns a preview table of g with numbered rows and columns.
func GridTable(g *pick3.Grid) Table {
	t := Table{
		Title:   fmt.Sprintf("Grid preview (%d x %d)", g.Rows(), g.Cols()),
		Columns: make([]string, g.Cols()),
		Rows:    make([][]string, g.Rows()),
		Index:   true,
	}
	for j := range t.Columns {
		t.Columns[j] = strconv.Itoa(j)
	}
	for i := range t.Rows {
		row := make([]string, g.Cols())
		for j := range row {
			row[j] = FormatNumber(g.At(i, j))
		}
		t.Rows[i] = row
	}
	return t
}

// CombinationTable converts combinations into a Val1..Val3 table.
func CombinationTable(title string, combos []pick3.Combination) Table {
	t := Table{
		Title:   title,
		Columns: append([]string(nil), pick3.Columns...),
		Rows:    make([][]string, len(combos)),
		Index:   true,
	}
	for i, c := range combos {
		t.Rows[i] = []string{FormatNumber(c[0]), FormatNumber(c[1]), FormatNumber(c[2])}
	}
	return t
}

// ResultTables returns the "with key" and "without key" tables for res.
func ResultTables(res pick3.Result) (withKey, withoutKey Table) {
	key := FormatNumber(res.Key)
	withKey = CombinationTable(fmt.Sprintf("Pick 3 combinations WITH key %s", key), res.WithKey)
	withoutKey = CombinationTable(fmt.Sprintf("Pick 3 combinations WITHOUT key %s", key), res.WithoutKey)
	return withKey, withoutKey
}

// Summary describes where the key was found and how many rows were produced.
func Summary(res pick3.Result) string {
	key := FormatNumber(res.Key)
	if !res.Found {
		return fmt.Sprintf("Key %s not found in grid; no combinations generated.", key)
	}
	neighbors := make([]string, len(res.Neighbors))
	for i, v := range res.Neighbors {
		neighbors[i] = FormatNumber(v)
	}
	return fmt.Sprintf("Key %s found at row %d, column %d. Neighbors: [%s]. %d with key, %d without key.",
		key, res.Position.Row, res.Position.Col, strings.Join(neighbors, ", "),
		len(res.WithKey), len(res.WithoutKey))
}

// WritePretty renders t as an aligned, colored text table.
func WritePretty(w io.Writer, t Table) {
	headerStyle := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	if t.Title != "" {
		headerStyle.Fprintf(w, "%s\n", t.Title)
	}

	columns, rows := t.Columns, t.Rows
	if t.Index {
		columns = append([]string{""}, columns...)
		rows = make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			rows[i] = append([]string{strconv.Itoa(i)}, r...)
		}
	}

	if len(rows) == 0 {
		dim.Fprintln(w, "  (empty)")
		fmt.Fprintln(w)
		return
	}

	widths := make([]int, len(columns))
	for j, c := range columns {
		widths[j] = len(c)
	}
	for _, r := range rows {
		for j, cell := range r {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}
	for j := range widths {
		widths[j] = min(max(widths[j], 3), maxColWidth)
	}

	writeRow(w, columns, widths, color.New(color.Bold))
	dim.Fprint(w, "  ")
	for j, width := range widths {
		if j > 0 {
			dim.Fprint(w, "+-")
		}
		dim.Fprint(w, strings.Repeat("-", width+1))
	}
	dim.Fprintln(w)

	for _, r := range rows {
		writeRow(w, r, widths, nil)
	}
	dim.Fprintf(w, "  (%d rows)\n\n", len(rows))
}

func writeRow(w io.Writer, row []string, widths []int, style *color.Color) {
	fmt.Fprint(w, "  ")
	for j, width := range widths {
		if j > 0 {
			fmt.Fprint(w, "| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if len(cell) > width {
			cell = cell[:width-1] + "~"
		}
		padded := cell + strings.Repeat(" ", width-len(cell)+1)
		if style != nil {
			style.Fprint(w, padded)
		} else {
			fmt.Fprint(w, padded)
		}
	}
	fmt.Fprintln(w)
}

// WriteCSV writes the header row and data rows of t as CSV.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("could not write CSV: %w", err)
	}
	return nil
}

// WriteMarkdown writes t as a GFM table under a level-3 heading.
func WriteMarkdown(w io.Writer, t Table) error {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "### %s\n\n", t.Title)
	}
	if len(t.Columns) > 0 {
		b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
		for _, r := range t.Rows {
			cells := make([]string, len(t.Columns))
			copy(cells, r)
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
