// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/js-arias/roulette/internal/sample"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/store"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// ChunkedDense apportions a budget of chips
// over a dense matrix stored in a container,
// and writes the result in another dense container
// of the same shape.
//
// The input is read in blocks of cfg.Block rows.
// In a first pass the floors of each block
// are written in the output,
// and the remainders are kept in memory
// (so memory is proportional to the number of cells).
// In a second pass the cells with the largest remainders
// are incremented in the output.
//
// If cfg.Mass is zero,
// and the input is not normalized,
// the mass is calculated with an additional pass.
//
// The result is the same as calling Matrix
// with the same matrix and configuration.
func ChunkedDense(in, out *store.Container, budget float64, cfg Config) error {
	if err := cfg.validate(budget); err != nil {
		return err
	}
	if in.Sparse() || out.Sparse() {
		return fmt.Errorf("%w: expecting dense containers", ErrShapeMismatch)
	}
	if err := sameDims(in, out); err != nil {
		return err
	}

	_, cols := in.Dims()
	f := &flat{
		kind:   "dense",
		in:     in.Data(),
		out:    out.Data(),
		step:   cfg.block() * cols,
		budget: budget,
		cfg:    cfg,
		log:    cfg.logger(),
	}
	if err := f.run(); err != nil {
		return err
	}
	return out.Flush()
}

// ChunkedSparse apportions a budget of chips
// over a sparse matrix stored in a container,
// and writes the result in another sparse container
// with the same shape and number of stored values.
//
// The column indices and row offsets
// are copied without changes,
// so only stored cells can receive chips.
// The data array is read in blocks of cfg.Block values,
// and apportioned in two passes,
// as in ChunkedDense.
//
// If the input has no mass,
// the budget is spread over the stored cells.
// A container without stored values
// can not hold a positive budget.
func ChunkedSparse(in, out *store.Container, budget float64, cfg Config) error {
	if err := cfg.validate(budget); err != nil {
		return err
	}
	if !in.Sparse() || !out.Sparse() {
		return fmt.Errorf("%w: expecting sparse containers", ErrShapeMismatch)
	}
	if err := sameDims(in, out); err != nil {
		return err
	}
	if in.NNZ() != out.NNZ() {
		return fmt.Errorf("%w: %d stored values, output with %d", ErrShapeMismatch, in.NNZ(), out.NNZ())
	}

	if err := copyArray(out.Indices(), in.Indices(), cfg.block()); err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	if err := copyArray(out.Indptr(), in.Indptr(), cfg.block()); err != nil {
		return fmt.Errorf("indptr: %w", err)
	}

	f := &flat{
		kind:   "sparse",
		in:     in.Data(),
		out:    out.Data(),
		step:   cfg.block(),
		budget: budget,
		cfg:    cfg,
		log:    cfg.logger(),
	}
	if err := f.run(); err != nil {
		return err
	}
	return out.Flush()
}

func sameDims(in, out *store.Container) error {
	r, c := in.Dims()
	outR, outC := out.Dims()
	if r != outR || c != outC {
		return fmt.Errorf("%w: input %d x %d, output %d x %d", ErrShapeMismatch, r, c, outR, outC)
	}
	return nil
}

func copyArray(dst, src store.Array, step int) error {
	if dst.Len() != src.Len() {
		return fmt.Errorf("%w: length %d, output length %d", ErrShapeMismatch, src.Len(), dst.Len())
	}
	buf := make([]float64, step)
	for off := 0; off < src.Len(); off += step {
		b := buf[:min(step, src.Len()-off)]
		if err := src.Read(b, off); err != nil {
			return err
		}
		if err := dst.Write(b, off); err != nil {
			return err
		}
	}
	return nil
}

// A flat is the apportionment
// of a flat stream of values.
type flat struct {
	kind   string
	in     store.Array
	out    store.Array
	step   int
	budget float64
	cfg    Config
	log    *slog.Logger
}

func (f *flat) run() error {
	mass := f.cfg.Mass
	if !f.cfg.Normalized && mass == 0 {
		var err error
		mass, err = f.mass()
		if err != nil {
			return err
		}
		if mass == 0 {
			return f.zeroMass()
		}
	}

	rem, floored, nonzero, err := f.floors(mass)
	if err != nil {
		return err
	}
	if !nonzero {
		return f.zeroMass()
	}
	if f.cfg.Mode == Reals {
		return nil
	}
	return f.remainders(rem, floored)
}

// Mass returns the sum of the input.
func (f *flat) mass() (float64, error) {
	buf := make([]float64, f.step)
	var mass float64
	for off := 0; off < f.in.Len(); off += f.step {
		b := buf[:min(f.step, f.in.Len()-off)]
		if err := f.in.Read(b, off); err != nil {
			return 0, err
		}
		if err := checkWeights(b, off); err != nil {
			return 0, err
		}
		mass += floats.Sum(b)
	}
	f.log.Info("mass", "kind", f.kind, "mass", mass)
	return mass, nil
}

// Floors writes the floors
// (or the scaled values in reals mode)
// of each block in the output,
// and returns the remainders,
// the sum of the floors,
// and whether the input has a value different from zero.
func (f *flat) floors(mass float64) ([]float64, int64, bool, error) {
	n := f.in.Len()
	var rem []float64
	if f.cfg.Mode == Integers {
		rem = make([]float64, n)
	}

	buf := make([]float64, f.step)
	vals := make([]float64, f.step)
	var floored int64
	var nonzero bool
	for off := 0; off < n; off += f.step {
		b := buf[:min(f.step, n-off)]
		v := vals[:len(b)]
		if err := f.in.Read(b, off); err != nil {
			return nil, 0, false, err
		}
		if err := checkWeights(b, off); err != nil {
			return nil, 0, false, err
		}
		if !nonzero {
			for _, x := range b {
				if x != 0 {
					nonzero = true
					break
				}
			}
		}

		if f.cfg.Mode == Reals {
			for i, x := range b {
				v[i] = scale(x, mass, f.budget, f.cfg.Normalized)
			}
		} else {
			floored += floorAll(b, v, rem[off:off+len(b)], mass, f.budget, f.cfg.Normalized)
		}
		if err := f.out.Write(v, off); err != nil {
			return nil, 0, false, err
		}

		f.log.Debug("block", "kind", f.kind, "start", off, "end", off+len(b), "floored", floored)
		if f.cfg.Progress != nil {
			f.cfg.Progress(off+len(b), n)
		}
	}
	return rem, floored, nonzero, nil
}

// Remainders adds a chip to the cells
// with the largest remainders.
func (f *flat) remainders(rem []float64, floored int64) error {
	if len(rem) != f.out.Len() {
		return fmt.Errorf("%w: %d remainders for %d output values", ErrShapeMismatch, len(rem), f.out.Len())
	}
	deficit, err := deficitOf(f.budget, floored, len(rem))
	if err != nil {
		return err
	}

	f.log.Info("remainders", "kind", f.kind, "floored", floored, "deficit", deficit)
	return f.bump(largest(rem, int(deficit)))
}

// Bump adds a chip to each position.
func (f *flat) bump(pos []int) error {
	cell := make([]float64, 1)
	for _, p := range pos {
		if err := f.out.Read(cell, p); err != nil {
			return err
		}
		cell[0]++
		if err := f.out.Write(cell, p); err != nil {
			return err
		}
	}
	return nil
}

// ZeroMass writes the output of an input without mass.
func (f *flat) zeroMass() error {
	n := f.out.Len()
	if f.cfg.Zero == Distribute && n == 0 && f.budget > 0 {
		return fmt.Errorf("%w: no cells to hold %v chips", ErrInvariant, f.budget)
	}
	f.log.Info("zero mass", "kind", f.kind, "policy", f.cfg.Zero)

	var base float64
	var extra []int
	if f.cfg.Zero == Distribute && n > 0 {
		if f.cfg.Mode == Reals {
			base = f.budget / float64(n)
		} else {
			b := int64(f.budget)
			base = float64(b / int64(n))
			extra = sample.Distinct(rand.New(f.cfg.source()), n, int(b%int64(n)))
		}
	}

	buf := make([]float64, f.step)
	for i := range buf {
		buf[i] = base
	}
	for off := 0; off < n; off += f.step {
		b := buf[:min(f.step, n-off)]
		if err := f.out.Write(b, off); err != nil {
			return err
		}
		if f.cfg.Progress != nil {
			f.cfg.Progress(off+len(b), n)
		}
	}
	return f.bump(extra)
}

func checkWeights(vals []float64, off int) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: element %d: %v", matrix.ErrInvalidWeight, off+i, v)
		}
	}
	return nil
}
