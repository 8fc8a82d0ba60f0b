package present

import (
	"math"
	"strconv"

	"github.com/klytics/pick3/internal/pick3"
)

// Number is a float64 that encodes NaN (a blank cell) as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(n)) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// ResultJSON is the JSON form of a pick3.Result.
type ResultJSON struct {
	Key        Number          `json:"key"`
	Found      bool            `json:"found"`
	Position   *pick3.Position `json:"position,omitempty"`
	Neighbors  []Number        `json:"neighbors"`
	WithKey    [][3]Number     `json:"withKey"`
	WithoutKey [][3]Number     `json:"withoutKey"`
}

// JSON converts res for encoding.
func JSON(res pick3.Result) ResultJSON {
	out := ResultJSON{
		Key:        Number(res.Key),
		Found:      res.Found,
		Position:   res.Position,
		Neighbors:  make([]Number, len(res.Neighbors)),
		WithKey:    combos(res.WithKey),
		WithoutKey: combos(res.WithoutKey),
	}
	for i, v := range res.Neighbors {
		out.Neighbors[i] = Number(v)
	}
	return out
}

func combos(in []pick3.Combination) [][3]Number {
	out := make([][3]Number, len(in))
	for i, c := range in {
		out[i] = [3]Number{Number(c[0]), Number(c[1]), Number(c[2])}
	}
	return out
}
