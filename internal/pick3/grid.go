// Package pick3 locates a key value in a numeric grid, collects the values
// of its surrounding cells and enumerates the Pick 3 combinations built
// from them.
package pick3

import (
	"errors"
	"fmt"
)

// ErrRaggedGrid is returned by NewGrid when rows differ in length.
var ErrRaggedGrid = errors.New("grid rows must all have the same number of columns")

// Grid is an immutable rows x cols matrix of numeric cells.
// Blank cells are stored as NaN and never compare equal to a key.
type Grid struct {
	cells [][]float64
	cols  int
}

// Position identifies a cell by zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// NewGrid copies cells into a new Grid.
func NewGrid(cells [][]float64) (*Grid, error) {
	g := &Grid{cells: make([][]float64, len(cells))}
	for i, row := range cells {
		if i == 0 {
			g.cols = len(row)
		} else if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrRaggedGrid, i, len(row), g.cols)
		}
		g.cells[i] = append([]float64(nil), row...)
	}
	return g, nil
}

// MustGrid is NewGrid for literals known to be rectangular. It panics otherwise.
func MustGrid(cells [][]float64) *Grid {
	g, err := NewGrid(cells)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the value at (row, col). It panics if the position is out of range.
func (g *Grid) At(row, col int) float64 { return g.cells[row][col] }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows() && p.Col >= 0 && p.Col < g.cols
}

// Values returns a copy of the grid's cells.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, len(g.cells))
	for i, row := range g.cells {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Find returns the first position, in row-major order, holding key.
func (g *Grid) Find(key float64) (Position, bool) {
	for i, row := range g.cells {
		for j, v := range row {
			if v == key {
				return Position{Row: i, Col: j}, true
			}
		}
	}
	return Position{}, false
}

// Neighbors returns the values of the up to eight cells adjacent to p,
// clipped at the grid edges. Cells are visited row by row, then column by
// column, and p itself is skipped.
func (g *Grid) Neighbors(p Position) []float64 {
	if !g.InBounds(p) {
		return nil
	}
	rowLo, rowHi := max(0, p.Row-1), min(g.Rows()-1, p.Row+1)
	colLo, colHi := max(0, p.Col-1), min(g.cols-1, p.Col+1)

	out := make([]float64, 0, 8)
	for x := rowLo; x <= rowHi; x++ {
		for y := colLo; y <= colHi; y++ {
			if x == p.Row && y == p.Col {
				continue
			}
			out = append(out, g.cells[x][y])
		}
	}
	return out
}

// Collect finds the first cell equal to key and returns its position and
// neighbour values. found is false when the key does not occur; that is a
// valid empty result, not an error.
func Collect(g *Grid, key float64) (pos Position, neighbors []float64, found bool) {
	pos, found = g.Find(key)
	if !found {
		return Position{}, nil, false
	}
	return pos, g.Neighbors(pos), true
}
