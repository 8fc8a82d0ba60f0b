package xlsx

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Table is a sheet to be written: an optional bold header row followed by
// data rows. Numeric cells are written as numbers.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteFile saves tables as a new workbook at path.
func WriteFile(tables []Table, path string) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

// Write streams tables as a workbook to w.
func Write(tables []Table, w io.Writer) error {
	f, err := build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("could not write workbook: %w", err)
	}
	return nil
}

func build(tables []Table) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not create header style: %w", err)
	}

	for i, t := range tables {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not create sheet %q: %w", name, err)
		}

		row := 1
		if len(t.Header) > 0 {
			header := make([]any, len(t.Header))
			for j, h := range t.Header {
				header[j] = h
			}
			if err := setRow(f, name, row, header); err != nil {
				f.Close()
				return nil, err
			}
			end, _ := excelize.CoordinatesToCellName(len(t.Header), row)
			if err := f.SetCellStyle(name, "A1", end, bold); err != nil {
				f.Close()
				return nil, fmt.Errorf("could not style header of %q: %w", name, err)
			}
			row++
		}

		for _, cells := range t.Rows {
			if err := setRow(f, name, row, cells); err != nil {
				f.Close()
				return nil, err
			}
			row++
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = cellValue(c)
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("could not write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

// cellValue turns numeric strings into numbers so spreadsheets can sum them.
// NaN is written as an empty cell.
func cellValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case string:
		if n, err := strconv.ParseFloat(x, 64); err == nil && !math.IsNaN(n) {
			return n
		}
		return x
	}
	return v
}
