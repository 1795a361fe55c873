// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package store

import "fmt"

// MemArray is an array stored in memory.
type memArray struct {
	dtype Dtype
	vals  []float64
}

func newMemArray(d Dtype, n int) *memArray {
	return &memArray{
		dtype: d,
		vals:  make([]float64, n),
	}
}

func (a *memArray) Len() int     { return len(a.vals) }
func (a *memArray) Dtype() Dtype { return a.dtype }
func (a *memArray) Flush() error { return nil }

func (a *memArray) Read(dst []float64, off int) error {
	if err := checkBounds(a, len(dst), off); err != nil {
		return err
	}
	copy(dst, a.vals[off:])
	return nil
}

func (a *memArray) Write(src []float64, off int) error {
	if err := checkBounds(a, len(src), off); err != nil {
		return err
	}
	for i, v := range src {
		if _, err := a.dtype.Convert(v); err != nil {
			return fmt.Errorf("element %d: %w", off+i, err)
		}
	}
	for i, v := range src {
		a.vals[off+i], _ = a.dtype.Convert(v)
	}
	return nil
}
