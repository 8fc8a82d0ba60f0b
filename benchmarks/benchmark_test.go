package benchmarks

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/pick3/internal/grid"
	"github.com/klytics/pick3/internal/pick3"
	"github.com/klytics/pick3/internal/present"
)

var sampleCSV = filepath.Join("..", "testdata", "grid.csv")
var sampleXlsx = filepath.Join("..", "testdata", "grid.xlsx")

func largeGrid(n int) *pick3.Grid {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = float64((i*n + j) % 100)
		}
	}
	return pick3.MustGrid(rows)
}

// --- Generator Benchmarks ---

func BenchmarkRunSmall(b *testing.B) {
	g := pick3.MustGrid([][]float64{{1, 2, 3}, {4, 7, 6}, {8, 5, 9}})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pick3.Run(g, 7)
	}
}

func BenchmarkRunLargeGridKeyAtEnd(b *testing.B) {
	g := largeGrid(500)
	key := g.At(g.Rows()-1, g.Cols()-1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pick3.Run(g, key)
	}
}

func BenchmarkGenerate(b *testing.B) {
	neighbors := []float64{1, 2, 3, 4, 6, 8, 5, 9}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pick3.Generate(7, neighbors)
	}
}

// --- Loader Benchmarks ---

func BenchmarkLoadCSV(b *testing.B) {
	if _, err := os.Stat(sampleCSV); os.IsNotExist(err) {
		b.Skip("grid.csv not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := grid.Load(sampleCSV, grid.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadXlsx(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("grid.xlsx not found, run: go run testdata/generate_fixtures.go")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := grid.Load(sampleXlsx, grid.Options{}); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Export Benchmarks ---

func BenchmarkExport(b *testing.B) {
	res := pick3.Run(pick3.MustGrid([][]float64{{1, 2, 3}, {4, 7, 6}, {8, 5, 9}}), 7)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := present.ExportTo(res, io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}
