package pick3

import (
	"errors"
	"fmt"
)

// Key bounds accepted by the generator front ends.
const (
	MinKey = 0
	MaxKey = 99
)

// ErrKeyOutOfRange is returned by ValidateKey.
var ErrKeyOutOfRange = errors.New("key out of range")

// Combination is one Pick 3 row. Columns are Val1, Val2, Val3.
type Combination [3]float64

// Columns are the column labels of a Combination table.
var Columns = []string{"Val1", "Val2", "Val3"}

// Result is the outcome of one generation run.
type Result struct {
	Key        float64       `json:"key"`
	Found      bool          `json:"found"`
	Position   *Position     `json:"position,omitempty"`
	Neighbors  []float64     `json:"neighbors"`
	WithKey    []Combination `json:"withKey"`
	WithoutKey []Combination `json:"withoutKey"`
}

// ValidateKey checks that key is within [MinKey, MaxKey].
func ValidateKey(key int) error {
	if key < MinKey || key > MaxKey {
		return fmt.Errorf("%w: %d is not between %d and %d", ErrKeyOutOfRange, key, MinKey, MaxKey)
	}
	return nil
}

// Generate builds the two combination sets for key and its neighbours.
//
// withKey holds (key, n[i], n[j]) for every i < j, and withoutKey holds
// (n[i], n[j], n[k]) for every i < j < k. Combinations are chosen by index,
// so repeated neighbour values yield repeated rows.
func Generate(key float64, neighbors []float64) (withKey, withoutKey []Combination) {
	n := len(neighbors)
	withKey = make([]Combination, 0, Choose(n, 2))
	withoutKey = make([]Combination, 0, Choose(n, 3))

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			withKey = append(withKey, Combination{key, neighbors[i], neighbors[j]})
			for k := j + 1; k < n; k++ {
				withoutKey = append(withoutKey, Combination{neighbors[i], neighbors[j], neighbors[k]})
			}
		}
	}
	return withKey, withoutKey
}

// Run locates key in g and generates both combination sets.
func Run(g *Grid, key float64) Result {
	res := Result{
		Key:        key,
		Neighbors:  []float64{},
		WithKey:    []Combination{},
		WithoutKey: []Combination{},
	}
	pos, neighbors, found := Collect(g, key)
	if !found {
		return res
	}
	res.Found = true
	res.Position = &pos
	res.Neighbors = neighbors
	res.WithKey, res.WithoutKey = Generate(key, neighbors)
	return res
}

// Choose returns the binomial coefficient C(n, k), or 0 when k > n.
func Choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (n - k + i) / i
	}
	return c
}
