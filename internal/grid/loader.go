// Package grid loads header-less numeric tables from delimited text or
// .xlsx files into a pick3.Grid.
package grid

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klytics/pick3/internal/formats/xlsx"
	"github.com/klytics/pick3/internal/pick3"
)

// utf8BOM is written by Excel's "CSV UTF-8" export.
var utf8BOM = []byte("\xEF\xBB\xBF")

// Format names a supported input format.
type Format string

// Supported input formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatText Format = "txt"
	FormatXLSX Format = "xlsx"
)

// SupportedFormats lists the formats Load accepts, in help-text order.
var SupportedFormats = []Format{FormatCSV, FormatTSV, FormatText, FormatXLSX}

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported grid format")
	// ErrMalformed is wrapped by every CellError.
	ErrMalformed = errors.New("malformed grid")
)

// CellError reports a cell that is neither blank nor a number.
// Row and Col are zero-based.
type CellError struct {
	Row   int
	Col   int
	Value string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell at row %d, column %d is not a number: %q", e.Row, e.Col, e.Value)
}

func (e *CellError) Unwrap() error { return ErrMalformed }

// Options tune loading. The zero value reads the first sheet and detects
// the format from the file extension.
type Options struct {
	Format Format
	Sheet  string
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".txt", ".dat":
		return FormatText, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, filepath.Ext(path), SupportedFormats)
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, ok := range SupportedFormats {
		if f == ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, s, SupportedFormats)
}

// Load reads the grid at path.
func Load(path string, opts Options) (*pick3.Grid, error) {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	if format == FormatXLSX {
		wb, err := xlsx.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return fromWorkbook(wb, opts.Sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s (check that the path is correct)", path)
		}
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	g, err := readText(f, format)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	return g, nil
}

// LoadReader reads a grid of the given format from r. The format must be
// explicit because there is no file name to inspect.
func LoadReader(r io.Reader, opts Options) (*pick3.Grid, error) {
	switch opts.Format {
	case "":
		return nil, fmt.Errorf("%w: a format is required when reading from a stream", ErrUnsupportedFormat)
	case FormatXLSX:
		wb, err := xlsx.Read(r)
		if err != nil {
			return nil, err
		}
		return fromWorkbook(wb, opts.Sheet)
	}
	return readText(r, opts.Format)
}

func fromWorkbook(wb *xlsx.Workbook, sheet string) (*pick3.Grid, error) {
	s, err := wb.GetSheet(sheet)
	if err != nil {
		return nil, err
	}
	return FromRows(s.Rows)
}

func readText(r io.Reader, format Format) (*pick3.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read grid data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = readDelimited(data, ',')
	case FormatTSV:
		rows, err = readDelimited(data, '\t')
	case FormatText:
		if delim := sniffDelimiter(data); delim != 0 {
			rows, err = readDelimited(data, delim)
		} else {
			rows, err = readWhitespace(data)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return FromRows(rows)
}

func readDelimited(data []byte, delim rune) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return rows, nil
}

func readWhitespace(data []byte) ([][]string, error) {
	var rows [][]string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		rows = append(rows, strings.Fields(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read grid data: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// non-empty line, or 0 when none occurs.
func sniffDelimiter(data []byte) rune {
	line := ""
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	best, bestCount := rune(0), 0
	for _, d := range []rune{',', ';', '\t'} {
		if c := strings.Count(line, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// FromRows converts cell text into a Grid. Blank cells become NaN, short
// rows are padded with NaN and trailing blank rows are dropped.
func FromRows(rows [][]string) (*pick3.Grid, error) {
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	cells := make([][]float64, len(rows))
	for i, row := range rows {
		cells[i] = make([]float64, width)
		for j := range cells[i] {
			if j >= len(row) {
				cells[i][j] = math.NaN()
				continue
			}
			v, err := parseCell(row[j])
			if err != nil {
				return nil, &CellError{Row: i, Col: j, Value: row[j]}
			}
			cells[i][j] = v
		}
	}
	return pick3.NewGrid(cells)
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// LoadArg loads a grid named on the command line. The path "-" reads
// from stdin, which requires opts.Format.
func LoadArg(path string, opts Options, stdin io.Reader) (*pick3.Grid, error) {
	if path == "-" {
		return LoadReader(stdin, opts)
	}
	return Load(path, opts)
}
