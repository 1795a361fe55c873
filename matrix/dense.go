// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Dense is a fully materialized matrix
// stored in row-major order.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense creates a new dense matrix.
// If data is nil,
// the matrix is filled with zeros;
// otherwise data must have rows*cols values
// in row-major order,
// and it will be used as the backing store of the matrix.
func NewDense(rows, cols int, data []float64) (*Dense, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for a %d x %d matrix", ErrBadShape, len(data), rows, cols)
	}
	for _, v := range data {
		if err := checkWeight(v); err != nil {
			return nil, err
		}
	}

	return &Dense{
		rows: rows,
		cols: cols,
		data: data,
	}, nil
}

func (d *Dense) matrix() {}

// Dims returns the number of rows and columns.
func (d *Dense) Dims() (r, c int) {
	return d.rows, d.cols
}

// At returns the value of a cell.
func (d *Dense) At(i, j int) float64 {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		panic(fmt.Sprintf("%v: cell %d,%d", ErrOutOfRange, i, j))
	}
	return d.data[i*d.cols+j]
}

// Set sets the value of a cell.
func (d *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		return fmt.Errorf("%w: cell %d,%d", ErrOutOfRange, i, j)
	}
	if err := checkWeight(v); err != nil {
		return err
	}
	d.data[i*d.cols+j] = v
	return nil
}

// Raw returns the backing slice of the matrix.
func (d *Dense) Raw() []float64 {
	return d.data
}

// RawRow returns the backing slice of a row.
func (d *Dense) RawRow(i int) []float64 {
	return d.data[i*d.cols : (i+1)*d.cols]
}

// Row returns a copy of a row
// as a matrix with a single row.
func (d *Dense) Row(i int) *Dense {
	if i < 0 || i >= d.rows {
		panic(fmt.Sprintf("%v: row %d", ErrOutOfRange, i))
	}
	return &Dense{
		rows: 1,
		cols: d.cols,
		data: slices.Clone(d.RawRow(i)),
	}
}

// Sum returns the total mass of the matrix.
func (d *Dense) Sum() float64 {
	return floats.Sum(d.data)
}

// RowSum returns the mass of a row.
func (d *Dense) RowSum(i int) float64 {
	return floats.Sum(d.RawRow(i))
}

// NNZ returns the number of cells different from zero.
func (d *Dense) NNZ() int {
	var n int
	for _, v := range d.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns a copy of the matrix.
func (d *Dense) Clone() Matrix {
	return &Dense{
		rows: d.rows,
		cols: d.cols,
		data: slices.Clone(d.data),
	}
}

// Sparse returns the matrix in compressed-row layout.
// Only cells different from zero are stored.
func (d *Dense) Sparse() *Sparse {
	nnz := d.NNZ()
	s := &Sparse{
		rows:    d.rows,
		cols:    d.cols,
		data:    make([]float64, 0, nnz),
		indices: make([]int32, 0, nnz),
		indptr:  make([]int32, d.rows+1),
	}
	for i := 0; i < d.rows; i++ {
		for j, v := range d.RawRow(i) {
			if v == 0 {
				continue
			}
			s.data = append(s.data, v)
			s.indices = append(s.indices, int32(j))
		}
		s.indptr[i+1] = int32(len(s.data))
	}
	return s
}
