// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import (
	"fmt"
	"math"

	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/store"
)

// Total returns the number of chips
// in an integer matrix.
func Total(m matrix.Matrix) (int64, error) {
	var vals []float64
	switch x := m.(type) {
	case *matrix.Dense:
		vals = x.Raw()
	case *matrix.Sparse:
		vals = x.Data()
	}

	var t total
	if err := t.add(vals, 0); err != nil {
		return 0, err
	}
	return t.chips, nil
}

// Verify checks that a matrix sums to a budget.
// In integers mode,
// every cell must be an integer
// and the sum must be exact.
// In reals mode,
// the relative error must be within Tolerance.
func Verify(m matrix.Matrix, budget float64, mode Mode) error {
	switch mode {
	case Integers:
		t, err := Total(m)
		if err != nil {
			return err
		}
		return checkTotal(t, budget)
	case Reals:
		return checkSum(m.Sum(), budget)
	}
	return fmt.Errorf("%w: %v", ErrInvalidMode, mode)
}

// VerifyContainer checks that the matrix
// stored in a container
// sums to a budget.
// The data is read in blocks.
func VerifyContainer(c *store.Container, budget float64, mode Mode) error {
	if mode != Integers && mode != Reals {
		return fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}

	data := c.Data()
	buf := make([]float64, c.Layout().Chunk)
	var t total
	var sum float64
	for off := 0; off < data.Len(); off += len(buf) {
		b := buf[:min(len(buf), data.Len()-off)]
		if err := data.Read(b, off); err != nil {
			return err
		}
		if mode == Reals {
			for _, v := range b {
				sum += v
			}
			continue
		}
		if err := t.add(b, off); err != nil {
			return err
		}
	}

	if mode == Reals {
		return checkSum(sum, budget)
	}
	return checkTotal(t.chips, budget)
}

// Total accumulates chips.
type total struct {
	chips int64
}

func (t *total) add(vals []float64, off int) error {
	for i, v := range vals {
		if v < 0 || v != math.Trunc(v) || v > MaxBudget {
			return fmt.Errorf("%w: element %d: %v is not a chip count", ErrInvariant, off+i, v)
		}
		t.chips += int64(v)
	}
	return nil
}

func checkTotal(t int64, budget float64) error {
	if t != int64(budget) {
		return fmt.Errorf("%w: %d chips, want %d", ErrInvariant, t, int64(budget))
	}
	return nil
}

func checkSum(sum, budget float64) error {
	if math.Abs(sum-budget) > Tolerance*math.Max(1, budget) {
		return fmt.Errorf("%w: sum %v, want %v", ErrInvariant, sum, budget)
	}
	return nil
}
