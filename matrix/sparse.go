// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Sparse is a matrix stored in compressed-row layout.
//
// The values of row i are stored in data[indptr[i]:indptr[i+1]],
// and their columns in indices[indptr[i]:indptr[i+1]].
// Columns are sorted and unique within each row.
// A stored value can be zero
// (an explicit zero).
type Sparse struct {
	rows, cols int
	data       []float64
	indices    []int32
	indptr     []int32
}

// NewSparse creates a new sparse matrix
// from its compressed-row arrays.
// The arrays are used as the backing store of the matrix.
func NewSparse(rows, cols int, data []float64, indices, indptr []int32) (*Sparse, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	if rows >= math.MaxInt32 || cols >= math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d x %d is too large for 32-bit indices", ErrBadShape, rows, cols)
	}
	if len(indptr) != rows+1 {
		return nil, fmt.Errorf("%w: indptr length %d, want %d", ErrBadLayout, len(indptr), rows+1)
	}
	if len(indices) != len(data) {
		return nil, fmt.Errorf("%w: %d indices for %d values", ErrBadLayout, len(indices), len(data))
	}
	if indptr[0] != 0 || int(indptr[rows]) != len(data) {
		return nil, fmt.Errorf("%w: indptr bounds [%d, %d], want [0, %d]", ErrBadLayout, indptr[0], indptr[rows], len(data))
	}
	for i := 0; i < rows; i++ {
		start, end := indptr[i], indptr[i+1]
		if end < start {
			return nil, fmt.Errorf("%w: row %d: decreasing indptr", ErrBadLayout, i)
		}
		prev := int32(-1)
		for _, j := range indices[start:end] {
			if j <= prev || int(j) >= cols {
				return nil, fmt.Errorf("%w: row %d: column %d", ErrBadLayout, i, j)
			}
			prev = j
		}
	}
	for _, v := range data {
		if err := checkWeight(v); err != nil {
			return nil, err
		}
	}

	return &Sparse{
		rows:    rows,
		cols:    cols,
		data:    data,
		indices: indices,
		indptr:  indptr,
	}, nil
}

// Triplet is a cell of a matrix.
type Triplet struct {
	Row, Col int
	Value    float64
}

// FromTriplets creates a sparse matrix from a list of cells.
// Cells defined more than once are added.
// Cells with zero values are kept as explicit zeros.
func FromTriplets(rows, cols int, cells []Triplet) (*Sparse, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	cells = slices.Clone(cells)
	for _, c := range cells {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			return nil, fmt.Errorf("%w: cell %d,%d", ErrOutOfRange, c.Row, c.Col)
		}
		if err := checkWeight(c.Value); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(cells, func(a, b Triplet) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	data := make([]float64, 0, len(cells))
	indices := make([]int32, 0, len(cells))
	indptr := make([]int32, rows+1)
	for k, c := range cells {
		if k > 0 && cells[k-1].Row == c.Row && cells[k-1].Col == c.Col {
			data[len(data)-1] += c.Value
			continue
		}
		data = append(data, c.Value)
		indices = append(indices, int32(c.Col))
		indptr[c.Row+1]++
	}
	for i := 1; i < len(indptr); i++ {
		indptr[i] += indptr[i-1]
	}

	return NewSparse(rows, cols, data, indices, indptr)
}

func (s *Sparse) matrix() {}

// Dims returns the number of rows and columns.
func (s *Sparse) Dims() (r, c int) {
	return s.rows, s.cols
}

// At returns the value of a cell.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(fmt.Sprintf("%v: cell %d,%d", ErrOutOfRange, i, j))
	}
	start, end := s.indptr[i], s.indptr[i+1]
	k, ok := slices.BinarySearch(s.indices[start:end], int32(j))
	if !ok {
		return 0
	}
	return s.data[int(start)+k]
}

// Data returns the stored values.
func (s *Sparse) Data() []float64 {
	return s.data
}

// Indices returns the column of each stored value.
func (s *Sparse) Indices() []int32 {
	return s.indices
}

// Indptr returns the row offsets.
func (s *Sparse) Indptr() []int32 {
	return s.indptr
}

// Len returns the number of stored values,
// including explicit zeros.
func (s *Sparse) Len() int {
	return len(s.data)
}

// Row returns a copy of a row
// as a matrix with a single row.
func (s *Sparse) Row(i int) *Sparse {
	if i < 0 || i >= s.rows {
		panic(fmt.Sprintf("%v: row %d", ErrOutOfRange, i))
	}
	start, end := s.indptr[i], s.indptr[i+1]
	return &Sparse{
		rows:    1,
		cols:    s.cols,
		data:    slices.Clone(s.data[start:end]),
		indices: slices.Clone(s.indices[start:end]),
		indptr:  []int32{0, end - start},
	}
}

// Sum returns the total mass of the matrix.
func (s *Sparse) Sum() float64 {
	return floats.Sum(s.data)
}

// RowSum returns the mass of a row.
func (s *Sparse) RowSum(i int) float64 {
	return floats.Sum(s.data[s.indptr[i]:s.indptr[i+1]])
}

// NNZ returns the number of stored values different from zero.
func (s *Sparse) NNZ() int {
	var n int
	for _, v := range s.data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns a copy of the matrix.
func (s *Sparse) Clone() Matrix {
	return &Sparse{
		rows:    s.rows,
		cols:    s.cols,
		data:    slices.Clone(s.data),
		indices: slices.Clone(s.indices),
		indptr:  slices.Clone(s.indptr),
	}
}

// WithValues returns a new matrix
// with the sparsity pattern of the matrix
// and the indicated values.
func (s *Sparse) WithValues(data []float64) (*Sparse, error) {
	if len(data) != len(s.data) {
		return nil, fmt.Errorf("%w: %d values for %d stored cells", ErrBadLayout, len(data), len(s.data))
	}
	for _, v := range data {
		if err := checkWeight(v); err != nil {
			return nil, err
		}
	}
	return &Sparse{
		rows:    s.rows,
		cols:    s.cols,
		data:    data,
		indices: slices.Clone(s.indices),
		indptr:  slices.Clone(s.indptr),
	}, nil
}

// Compact returns a copy of the matrix
// without explicit zeros.
func (s *Sparse) Compact() *Sparse {
	nnz := s.NNZ()
	c := &Sparse{
		rows:    s.rows,
		cols:    s.cols,
		data:    make([]float64, 0, nnz),
		indices: make([]int32, 0, nnz),
		indptr:  make([]int32, s.rows+1),
	}
	for i := 0; i < s.rows; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			if s.data[k] == 0 {
				continue
			}
			c.data = append(c.data, s.data[k])
			c.indices = append(c.indices, s.indices[k])
		}
		c.indptr[i+1] = int32(len(c.data))
	}
	return c
}

// Dense returns the matrix as a dense matrix.
func (s *Sparse) Dense() *Dense {
	d := &Dense{
		rows: s.rows,
		cols: s.cols,
		data: make([]float64, s.rows*s.cols),
	}
	for i := 0; i < s.rows; i++ {
		row := d.RawRow(i)
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			row[s.indices[k]] = s.data[k]
		}
	}
	return d
}
