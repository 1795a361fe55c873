// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion_test

import (
	"math"
	"testing"

	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/matrix"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func rawOf(m matrix.Matrix) []float64 {
	switch x := m.(type) {
	case *matrix.Dense:
		return x.Raw()
	case *matrix.Sparse:
		return x.Dense().Raw()
	}
	return nil
}

func newDense(t testing.TB, r, c int, data []float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDense(r, c, data)
	require.NoError(t, err)
	return d
}

func positiveDense(t testing.TB, r, c int, seed uint64) *matrix.Dense {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rnd.Float64() + 0.01
	}
	return newDense(t, r, c, data)
}

func TestParse(t *testing.T) {
	m, err := apportion.ParseMode("reals")
	require.NoError(t, err)
	require.Equal(t, apportion.Reals, m)
	m, err = apportion.ParseMode("Integers")
	require.NoError(t, err)
	require.Equal(t, apportion.Integers, m)
	_, err = apportion.ParseMode("fractions")
	require.ErrorIs(t, err, apportion.ErrInvalidMode)

	z, err := apportion.ParseZeroPolicy("skip")
	require.NoError(t, err)
	require.Equal(t, apportion.Skip, z)
	require.Equal(t, "distribute", apportion.Distribute.String())
	_, err = apportion.ParseZeroPolicy("ignore")
	require.ErrorIs(t, err, apportion.ErrInvalidPolicy)
}

func TestInvalidConfig(t *testing.T) {
	d := newDense(t, 2, 2, []float64{1, 2, 3, 4})

	tests := map[string]struct {
		budget float64
		cfg    apportion.Config
		want   error
	}{
		"unknown mode": {
			budget: 10,
			cfg:    apportion.Config{Mode: apportion.Mode(7)},
			want:   apportion.ErrInvalidMode,
		},
		"unknown policy": {
			budget: 10,
			cfg:    apportion.Config{Zero: apportion.ZeroPolicy(3)},
			want:   apportion.ErrInvalidPolicy,
		},
		"fractional budget": {
			budget: 2.5,
			want:   apportion.ErrInvalidBudget,
		},
		"negative budget": {
			budget: -1,
			cfg:    apportion.Config{Mode: apportion.Reals},
			want:   apportion.ErrInvalidBudget,
		},
		"infinite budget": {
			budget: math.Inf(1),
			cfg:    apportion.Config{Mode: apportion.Reals},
			want:   apportion.ErrInvalidBudget,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := apportion.Matrix(d, test.budget, test.cfg)
			require.ErrorIs(t, err, test.want)
			_, err = apportion.Rows(d, test.budget, test.cfg)
			require.ErrorIs(t, err, test.want)
		})
	}

	a, err := apportion.Matrix(d, 2.5, apportion.Config{Mode: apportion.Reals})
	require.NoError(t, err)
	require.InDelta(t, 2.5, a.Sum(), 1e-12)
}

func TestMatrixSum(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		s, err := matrix.Random(20, 30, 0.2, rand.NewSource(seed))
		require.NoError(t, err)

		for _, m := range []matrix.Matrix{s, s.Dense()} {
			for _, budget := range []float64{0, 1, 7, 999, 10000} {
				a, err := apportion.Matrix(m, budget, apportion.Config{})
				require.NoError(t, err)
				total, err := apportion.Total(a)
				require.NoError(t, err)
				require.Equal(t, int64(budget), total)
				require.NoError(t, apportion.Verify(a, budget, apportion.Integers))
			}

			a, err := apportion.Matrix(m, 123.45, apportion.Config{Mode: apportion.Reals})
			require.NoError(t, err)
			require.NoError(t, apportion.Verify(a, 123.45, apportion.Reals))
		}
	}
}

func TestLargeSparse(t *testing.T) {
	s, err := matrix.Random(100, 100, 0.1, rand.NewSource(1))
	require.NoError(t, err)
	require.Equal(t, 1000, s.Len())

	const budget = 10000
	a, err := apportion.Matrix(s, budget, apportion.Config{})
	require.NoError(t, err)
	require.IsType(t, &matrix.Sparse{}, a)

	total, err := apportion.Total(a)
	require.NoError(t, err)
	require.Equal(t, int64(budget), total)

	mass := s.Sum()
	var floors int64
	var bumped int64
	for i := 0; i < 100; i++ {
		for k := s.Indptr()[i]; k < s.Indptr()[i+1]; k++ {
			j := int(s.Indices()[k])
			f := math.Floor(s.Data()[k] / mass * budget)
			floors += int64(f)
			got := a.At(i, j)
			require.True(t, got == f || got == f+1, "cell %d, %d: got %v, floor %v", i, j, got, f)
			if got == f+1 {
				bumped++
			}
		}
	}
	require.Equal(t, budget-floors, bumped)
}

func TestTieBreak(t *testing.T) {
	d := newDense(t, 1, 5, []float64{1, 1, 1, 0, 0})
	a, err := apportion.Matrix(d, 5, apportion.Config{})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 1, 0, 0}, rawOf(a))

	a, err = apportion.Matrix(d.Sparse(), 5, apportion.Config{})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 2, 1, 0, 0}, rawOf(a))
}

func TestDenseSparseAsymmetry(t *testing.T) {
	d := newDense(t, 1, 4, []float64{0, 0.5, 0, 0})
	cfg := apportion.Config{Normalized: true}

	// a dense matrix can give a chip to a zero cell
	a, err := apportion.Matrix(d, 2, cfg)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 0, 0}, rawOf(a))

	// a sparse matrix only uses stored cells
	a, err = apportion.Matrix(d.Sparse(), 2, cfg)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 2, 0, 0}, rawOf(a))

	// not enough cells for the remaining chips
	_, err = apportion.Matrix(d.Sparse(), 4, cfg)
	require.ErrorIs(t, err, apportion.ErrInvariant)
}

func TestSingleRow(t *testing.T) {
	row := newDense(t, 1, 5, []float64{1, 0, 0, 0, 0})
	a, err := apportion.Matrix(row, 5, apportion.Config{})
	require.NoError(t, err)
	want := rawOf(a)
	require.Equal(t, []float64{5, 0, 0, 0, 0}, want)

	// the same row inside a larger matrix
	data := make([]float64, 25)
	data[0] = 1
	d := newDense(t, 5, 5, data)
	a2, err := apportion.Matrix(d, 5, apportion.Config{})
	require.NoError(t, err)
	require.Equal(t, want, rawOf(matrix.RowOf(a2, 0)))
	require.Equal(t, 5.0, a2.Sum())
}

func TestZeroMass(t *testing.T) {
	zero := newDense(t, 5, 5, nil)
	a, err := apportion.Matrix(zero, 25, apportion.Config{})
	require.NoError(t, err)
	for _, v := range rawOf(a) {
		require.Equal(t, 1.0, v)
	}

	empty, err := matrix.FromTriplets(5, 5, nil)
	require.NoError(t, err)
	a, err = apportion.Matrix(empty, 25, apportion.Config{})
	require.NoError(t, err)
	require.Equal(t, 25, a.(*matrix.Sparse).Len())
	require.Equal(t, 25.0, a.Sum())

	// floor and modulus distribution
	zero = newDense(t, 3, 4, nil)
	a, err = apportion.Matrix(zero, 29, apportion.Config{Source: rand.NewSource(3)})
	require.NoError(t, err)
	counts := make(map[float64]int)
	for _, v := range rawOf(a) {
		counts[v]++
	}
	require.Equal(t, map[float64]int{2: 7, 3: 5}, counts)

	b, err := apportion.Matrix(zero, 29, apportion.Config{Source: rand.NewSource(3)})
	require.NoError(t, err)
	require.Equal(t, rawOf(a), rawOf(b))

	a, err = apportion.Matrix(newDense(t, 2, 2, nil), 1, apportion.Config{Mode: apportion.Reals})
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, rawOf(a))

	a, err = apportion.Matrix(zero, 29, apportion.Config{Zero: apportion.Skip})
	require.NoError(t, err)
	require.Equal(t, 0.0, a.Sum())
}

func TestRows(t *testing.T) {
	ones := make([]float64, 25)
	for i := range ones {
		ones[i] = 1
	}
	a, err := apportion.Rows(newDense(t, 5, 5, ones), 5, apportion.Config{})
	require.NoError(t, err)
	require.Equal(t, ones, rawOf(a))
	total, err := apportion.Total(a)
	require.NoError(t, err)
	require.Equal(t, int64(25), total)

	// rows with equal mass
	n := matrix.NormalizeRows(positiveDense(t, 10, 8, 3))
	a, err = apportion.Rows(n, 7, apportion.Config{Normalized: true})
	require.NoError(t, err)
	total, err = apportion.Total(a)
	require.NoError(t, err)
	require.Equal(t, int64(70), total)
	for i := 0; i < 10; i++ {
		require.Equal(t, 7.0, a.RowSum(i))
	}

	w, err := apportion.Matrix(n, 70, apportion.Config{})
	require.NoError(t, err)
	total, err = apportion.Total(w)
	require.NoError(t, err)
	require.Equal(t, int64(70), total)
}

func TestRowsZero(t *testing.T) {
	d := newDense(t, 3, 4, []float64{
		1, 2, 3, 4,
		0, 0, 0, 0,
		5, 0, 0, 5,
	})

	a, err := apportion.Rows(d, 10, apportion.Config{Zero: apportion.Skip})
	require.NoError(t, err)
	total, err := apportion.Total(a)
	require.NoError(t, err)
	require.Equal(t, int64(20), total)
	require.Equal(t, 0.0, a.RowSum(1))

	a, err = apportion.Rows(d, 10, apportion.Config{})
	require.NoError(t, err)
	total, err = apportion.Total(a)
	require.NoError(t, err)
	require.Equal(t, int64(30), total)
	counts := make(map[float64]int)
	for _, v := range rawOf(matrix.RowOf(a, 1)) {
		counts[v]++
	}
	require.Equal(t, map[float64]int{2: 2, 3: 2}, counts)

	// each row of an empty matrix sums to its own budget
	a, err = apportion.Rows(newDense(t, 4, 3, nil), 7, apportion.Config{})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.Equal(t, 7.0, a.RowSum(i))
	}
}

func TestRowsParallel(t *testing.T) {
	s, err := matrix.Random(50, 40, 0.05, rand.NewSource(9))
	require.NoError(t, err)

	one, err := apportion.Rows(s, 100, apportion.Config{CPU: 1, Source: rand.NewSource(5)})
	require.NoError(t, err)
	many, err := apportion.Rows(s, 100, apportion.Config{CPU: 8, Source: rand.NewSource(5)})
	require.NoError(t, err)
	require.Equal(t, rawOf(one), rawOf(many))

	for i := 0; i < 50; i++ {
		require.Equal(t, 100.0, one.RowSum(i), "row %d", i)
	}

	// each row apportioned alone
	n := matrix.NormalizeRows(s)
	for i := 0; i < 50; i++ {
		row := matrix.RowOf(n, i)
		if row.NNZ() == 0 {
			continue
		}
		a, err := apportion.Matrix(row, 100, apportion.Config{Normalized: true})
		require.NoError(t, err)
		require.Equal(t, rawOf(a), rawOf(matrix.RowOf(one, i)), "row %d", i)
	}
}

func TestRowsError(t *testing.T) {
	// rows that do not sum to one
	d := newDense(t, 3, 2, []float64{
		0.5, 0.5,
		2, 0,
		0.5, 0.5,
	})
	_, err := apportion.Rows(d, 3, apportion.Config{Normalized: true, CPU: 2})
	require.ErrorIs(t, err, apportion.ErrInvariant)
	require.ErrorContains(t, err, "row 1:")

	// several failing rows:
	// the lowest one is always reported
	data := make([]float64, 60*2)
	for i := 0; i < 60; i++ {
		data[2*i], data[2*i+1] = 0.5, 0.5
	}
	for _, i := range []int{7, 20, 45, 59} {
		data[2*i], data[2*i+1] = 2, 0
	}
	d = newDense(t, 60, 2, data)
	for trial := 0; trial < 20; trial++ {
		_, err := apportion.Rows(d, 3, apportion.Config{Normalized: true, CPU: 8})
		require.ErrorIs(t, err, apportion.ErrInvariant)
		require.ErrorContains(t, err, "row 7:")
	}
}
