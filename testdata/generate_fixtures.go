//go:build ignore

// This program generates the .xlsx grid fixture from testdata/grid.csv.
package main

import (
	"fmt"
	"os"

	"github.com/klytics/pick3/internal/formats/xlsx"
	"github.com/klytics/pick3/internal/grid"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating grid.xlsx: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	g, err := grid.Load("testdata/grid.csv", grid.Options{})
	if err != nil {
		return err
	}

	draws := xlsx.Table{Name: "Draws"}
	for _, row := range g.Values() {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		draws.Rows = append(draws.Rows, cells)
	}

	notes := xlsx.Table{
		Name:   "Notes",
		Header: []string{"Source"},
		Rows:   [][]any{{"testdata/grid.csv"}},
	}

	return xlsx.WriteFile([]xlsx.Table{draws, notes}, "testdata/grid.xlsx")
}
