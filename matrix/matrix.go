// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrix implements hypothesis matrices,
// i.e. matrices of nonnegative weights
// that express a belief
// about the transitions between states.
//
// A matrix is either dense (a Dense),
// with every cell stored in row-major order,
// or sparse (a Sparse),
// stored in compressed-row layout.
// Both types implement the Matrix interface,
// and no other type can implement it.
package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a hypothesis matrix.
type Matrix interface {
	// Dims returns the number of rows and columns.
	Dims() (r, c int)

	// At returns the value of a cell.
	// It panics if the cell is out of range.
	At(i, j int) float64

	// Sum returns the total mass of the matrix.
	Sum() float64

	// RowSum returns the mass of a row.
	RowSum(i int) float64

	// NNZ returns the number of cells
	// with a value different from zero.
	NNZ() int

	// Clone returns a deep copy of the matrix.
	Clone() Matrix

	matrix()
}

// RowOf returns a row of a matrix
// as a new matrix of a single row
// of the same type.
func RowOf(m Matrix, i int) Matrix {
	switch x := m.(type) {
	case *Dense:
		return x.Row(i)
	case *Sparse:
		return x.Row(i)
	}
	panic(fmt.Sprintf("matrix: unknown matrix type %T", m))
}

// RowSums returns the mass of each row.
func RowSums(m Matrix) []float64 {
	r, _ := m.Dims()
	sums := make([]float64, r)
	for i := range sums {
		sums[i] = m.RowSum(i)
	}
	return sums
}

// NormalizeRows returns a copy of a matrix
// in which each row is divided by its own mass,
// so each row sums to one.
// Rows with no mass are left untouched.
func NormalizeRows(m Matrix) Matrix {
	switch x := m.(type) {
	case *Dense:
		n := x.Clone().(*Dense)
		for i := 0; i < n.rows; i++ {
			row := n.RawRow(i)
			divide(row, floats.Sum(row))
		}
		return n
	case *Sparse:
		n := x.Clone().(*Sparse)
		for i := 0; i < n.rows; i++ {
			row := n.data[n.indptr[i]:n.indptr[i+1]]
			divide(row, floats.Sum(row))
		}
		return n
	}
	panic(fmt.Sprintf("matrix: unknown matrix type %T", m))
}

func divide(v []float64, s float64) {
	if s == 0 {
		return
	}
	for i, x := range v {
		v[i] = x / s
	}
}

func checkShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %d x %d", ErrBadShape, rows, cols)
	}
	return nil
}

func checkWeight(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, v)
	}
	return nil
}
