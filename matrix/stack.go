// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import "fmt"

// VStack stacks matrices vertically,
// in the given order.
// All matrices must have the same number of columns.
// If all matrices are dense,
// the result is dense;
// otherwise the result is sparse.
func VStack(ms ...Matrix) (Matrix, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: no matrices to stack", ErrBadShape)
	}

	_, cols := ms[0].Dims()
	var rows int
	dense := true
	for i, m := range ms {
		r, c := m.Dims()
		if c != cols {
			return nil, fmt.Errorf("%w: matrix %d: %d columns, want %d", ErrBadShape, i, c, cols)
		}
		rows += r
		if _, ok := m.(*Dense); !ok {
			dense = false
		}
	}

	if dense {
		data := make([]float64, 0, rows*cols)
		for _, m := range ms {
			data = append(data, m.(*Dense).data...)
		}
		return &Dense{rows: rows, cols: cols, data: data}, nil
	}

	s := &Sparse{
		rows:   rows,
		cols:   cols,
		indptr: make([]int32, 1, rows+1),
	}
	for _, m := range ms {
		var sm *Sparse
		switch x := m.(type) {
		case *Dense:
			sm = x.Sparse()
		case *Sparse:
			sm = x
		}
		off := int32(len(s.data))
		s.data = append(s.data, sm.data...)
		s.indices = append(s.indices, sm.indices...)
		for _, p := range sm.indptr[1:] {
			s.indptr = append(s.indptr, off+p)
		}
	}
	return s, nil
}
