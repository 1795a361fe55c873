// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import (
	"fmt"
	"math"

	"github.com/js-arias/roulette/internal/sample"
	"github.com/js-arias/roulette/matrix"
	"golang.org/x/exp/rand"
)

// Matrix apportions a budget of chips over a matrix.
//
// The result has the same type and shape as the input.
// A sparse result only keeps the cells with chips.
func Matrix(m matrix.Matrix, budget float64, cfg Config) (matrix.Matrix, error) {
	if err := cfg.validate(budget); err != nil {
		return nil, err
	}
	cfg.Source = cfg.source()
	return apportion(m, budget, cfg)
}

// Apportion apportions a matrix
// with a validated configuration.
func apportion(m matrix.Matrix, budget float64, cfg Config) (matrix.Matrix, error) {
	if m.NNZ() == 0 {
		return zeroMass(m, budget, cfg)
	}

	var mass float64
	if !cfg.Normalized {
		mass = cfg.Mass
		if mass == 0 {
			mass = m.Sum()
		}
		if mass == 0 {
			return zeroMass(m, budget, cfg)
		}
	}

	var vals []float64
	switch x := m.(type) {
	case *matrix.Dense:
		vals = x.Raw()
	case *matrix.Sparse:
		vals = x.Data()
	}

	out := make([]float64, len(vals))
	if cfg.Mode == Reals {
		for i, v := range vals {
			out[i] = scale(v, mass, budget, cfg.Normalized)
		}
		return withValues(m, out)
	}

	rem := make([]float64, len(vals))
	floored := floorAll(vals, out, rem, mass, budget, cfg.Normalized)
	deficit, err := deficitOf(budget, floored, len(rem))
	if err != nil {
		return nil, err
	}
	for _, p := range largest(rem, int(deficit)) {
		out[p]++
	}

	a, err := withValues(m, out)
	if err != nil {
		return nil, err
	}
	if err := Verify(a, budget, Integers); err != nil {
		return nil, err
	}
	return a, nil
}

// FloorAll stores the floor of the scaled values in out,
// and the fractional remainders in rem.
// It returns the sum of the floors.
func floorAll(vals, out, rem []float64, mass, budget float64, normalized bool) int64 {
	var floored int64
	for i, v := range vals {
		s := scale(v, mass, budget, normalized)
		f := math.Floor(s)
		out[i] = f
		rem[i] = s - f
		floored += int64(f)
	}
	return floored
}

// DeficitOf returns the number of chips
// that must be placed using the remainders.
func deficitOf(budget float64, floored int64, cells int) (int64, error) {
	deficit := int64(budget) - floored
	if deficit < 0 {
		return 0, fmt.Errorf("%w: floors sum %d, over a budget of %d", ErrInvariant, floored, int64(budget))
	}
	if deficit > int64(cells) {
		return 0, fmt.Errorf("%w: %d chips left for %d cells", ErrInvariant, deficit, cells)
	}
	return deficit, nil
}

func withValues(m matrix.Matrix, vals []float64) (matrix.Matrix, error) {
	switch x := m.(type) {
	case *matrix.Dense:
		r, c := x.Dims()
		return matrix.NewDense(r, c, vals)
	case *matrix.Sparse:
		s, err := x.WithValues(vals)
		if err != nil {
			return nil, err
		}
		return s.Compact(), nil
	}
	panic(fmt.Sprintf("apportion: unknown matrix type %T", m))
}

// ZeroMass apportions a matrix without mass.
func zeroMass(m matrix.Matrix, budget float64, cfg Config) (matrix.Matrix, error) {
	if cfg.Zero == Skip {
		return m.Clone(), nil
	}

	r, c := m.Dims()
	vals := uniform(r*c, budget, cfg)
	d, err := matrix.NewDense(r, c, vals)
	if err != nil {
		return nil, err
	}
	if _, ok := m.(*matrix.Sparse); ok {
		return d.Sparse(), nil
	}
	return d, nil
}

// Uniform returns n values
// with the budget spread uniformly.
// In integers mode,
// the chips left after the uniform floor
// are assigned to distinct random cells.
func uniform(n int, budget float64, cfg Config) []float64 {
	vals := make([]float64, n)
	if cfg.Mode == Reals {
		v := budget / float64(n)
		for i := range vals {
			vals[i] = v
		}
		return vals
	}

	b := int64(budget)
	base := float64(b / int64(n))
	for i := range vals {
		vals[i] = base
	}
	extra := int(b % int64(n))
	for _, p := range sample.Distinct(rand.New(cfg.source()), n, extra) {
		vals[p]++
	}
	return vals
}
