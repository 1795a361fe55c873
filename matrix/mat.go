// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import (
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Mat returns a copy of the matrix
// as a gonum dense matrix.
func (d *Dense) Mat() *mat.Dense {
	return mat.NewDense(d.rows, d.cols, slices.Clone(d.data))
}

// FromMat creates a dense matrix
// from a gonum matrix.
func FromMat(a mat.Matrix) (*Dense, error) {
	r, c := a.Dims()
	if err := checkShape(r, c); err != nil {
		return nil, err
	}
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, a.At(i, j))
		}
	}
	return NewDense(r, c, data)
}
