// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package store

import (
	"fmt"

	"github.com/js-arias/roulette/matrix"
)

// LayoutOf returns the layout of a container
// that can hold a matrix.
func LayoutOf(m matrix.Matrix, d Dtype) Layout {
	r, c := m.Dims()
	l := Layout{
		Rows:  r,
		Cols:  c,
		Dtype: d,
	}
	if s, ok := m.(*matrix.Sparse); ok {
		l.Sparse = true
		l.NNZ = s.Len()
	}
	return l
}

// Write writes a matrix into a container.
// The container must have the layout of the matrix.
func Write(c *Container, m matrix.Matrix) error {
	want := LayoutOf(m, c.layout.Dtype)
	if want.Rows != c.layout.Rows || want.Cols != c.layout.Cols || want.Sparse != c.layout.Sparse || want.NNZ != c.layout.NNZ {
		return fmt.Errorf("%w: container %d x %d (sparse %v, %d stored), matrix %d x %d (sparse %v, %d stored)",
			ErrLayout, c.layout.Rows, c.layout.Cols, c.layout.Sparse, c.layout.NNZ,
			want.Rows, want.Cols, want.Sparse, want.NNZ)
	}

	switch x := m.(type) {
	case *matrix.Dense:
		if err := c.data.Write(x.Raw(), 0); err != nil {
			return err
		}
	case *matrix.Sparse:
		if err := c.data.Write(x.Data(), 0); err != nil {
			return err
		}
		if err := c.indices.Write(toFloats(x.Indices()), 0); err != nil {
			return err
		}
		if err := c.indptr.Write(toFloats(x.Indptr()), 0); err != nil {
			return err
		}
	}
	return c.Flush()
}

// Load reads a matrix from a container.
// The whole matrix is loaded in memory.
func Load(c *Container) (matrix.Matrix, error) {
	data := make([]float64, c.data.Len())
	if err := c.data.Read(data, 0); err != nil {
		return nil, err
	}
	if !c.layout.Sparse {
		return matrix.NewDense(c.layout.Rows, c.layout.Cols, data)
	}

	indices, err := ReadInt32(c.indices, 0, c.indices.Len())
	if err != nil {
		return nil, err
	}
	indptr, err := ReadInt32(c.indptr, 0, c.indptr.Len())
	if err != nil {
		return nil, err
	}
	return matrix.NewSparse(c.layout.Rows, c.layout.Cols, data, indices, indptr)
}

// Save saves a matrix into a new container
// at the indicated directory,
// using d as the data type for the values.
func Save(dir string, m matrix.Matrix, d Dtype) (err error) {
	c, err := Create(dir, LayoutOf(m, d))
	if err != nil {
		return err
	}
	defer func() {
		e := c.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	return Write(c, m)
}

// ReadInt32 reads n elements from an array
// as 32-bit integers.
func ReadInt32(a Array, off, n int) ([]int32, error) {
	vals := make([]float64, n)
	if err := a.Read(vals, off); err != nil {
		return nil, err
	}
	ints := make([]int32, n)
	for i, v := range vals {
		ints[i] = int32(v)
	}
	return ints, nil
}

func toFloats(v []int32) []float64 {
	f := make([]float64, len(v))
	for i, x := range v {
		f[i] = float64(x)
	}
	return f
}
