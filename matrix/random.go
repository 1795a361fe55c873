// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import (
	"fmt"
	"math"

	"github.com/js-arias/roulette/internal/sample"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random returns a sparse matrix
// with the indicated density
// (the proportion of stored cells),
// with values drawn from a uniform distribution in [0, 1).
// The stored cells are picked at random.
func Random(rows, cols int, density float64, src rand.Source) (*Sparse, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if math.IsNaN(density) || density < 0 || density > 1 {
		return nil, fmt.Errorf("matrix: invalid density %v", density)
	}

	n := rows * cols
	k := int(math.Round(density * float64(n)))
	cells := sample.Distinct(rand.New(src), n, k)

	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	t := make([]Triplet, 0, len(cells))
	for _, c := range cells {
		t = append(t, Triplet{
			Row:   c / cols,
			Col:   c % cols,
			Value: u.Rand(),
		})
	}
	return FromTriplets(rows, cols, t)
}
