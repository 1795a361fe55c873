// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion_test

import (
	"testing"

	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func memContainer(t testing.TB, m matrix.Matrix) *store.Container {
	t.Helper()
	c, err := store.NewMem(store.LayoutOf(m, store.Float64))
	require.NoError(t, err)
	require.NoError(t, store.Write(c, m))
	return c
}

func load(t testing.TB, c *store.Container) matrix.Matrix {
	t.Helper()
	m, err := store.Load(c)
	require.NoError(t, err)
	return m
}

func TestChunkedDense(t *testing.T) {
	s, err := matrix.Random(30, 20, 0.3, rand.NewSource(7))
	require.NoError(t, err)
	d := s.Dense()

	for _, mode := range []apportion.Mode{apportion.Integers, apportion.Reals} {
		cfg := apportion.Config{
			Mode:  mode,
			Mass:  d.Sum(),
			Block: 7,
		}
		want, err := apportion.Matrix(d, 5000, cfg)
		require.NoError(t, err)

		in := memContainer(t, d)
		l := store.LayoutOf(d, store.Float64)
		if mode == apportion.Integers {
			l.Dtype = store.Uint32
		}
		out, err := store.NewMem(l)
		require.NoError(t, err)

		var done, total int
		cfg.Progress = func(n, all int) {
			done, total = n, all
		}
		require.NoError(t, apportion.ChunkedDense(in, out, 5000, cfg))
		require.Equal(t, 600, total)
		require.Equal(t, total, done)

		got := load(t, out)
		require.Equal(t, rawOf(want), rawOf(got), "mode %v", mode)
		require.NoError(t, apportion.VerifyContainer(out, 5000, mode))
	}
}

func TestChunkedDenseFile(t *testing.T) {
	d := positiveDense(t, 25, 9, 13)

	in, err := store.Create(t.TempDir(), store.Layout{Rows: 25, Cols: 9, Chunk: 40})
	require.NoError(t, err)
	require.NoError(t, store.Write(in, d))

	out, err := store.Create(t.TempDir(), store.Layout{Rows: 25, Cols: 9, Dtype: store.Uint16, Chunk: 32})
	require.NoError(t, err)

	// mass computed by the apportioner
	require.NoError(t, apportion.ChunkedDense(in, out, 1000, apportion.Config{Block: 4}))
	require.NoError(t, out.Close())
	require.NoError(t, apportion.VerifyContainer(out, 1000, apportion.Integers))

	want, err := apportion.Matrix(d, 1000, apportion.Config{})
	require.NoError(t, err)
	got := load(t, out)
	total, err := apportion.Total(got)
	require.NoError(t, err)
	require.Equal(t, int64(1000), total)

	// mass calculation can differ in the last bits,
	// so each cell can differ by at most a chip
	w := rawOf(want)
	for i, v := range rawOf(got) {
		require.InDelta(t, w[i], v, 1, "cell %d", i)
	}
}

func TestChunkedSparse(t *testing.T) {
	s, err := matrix.Random(40, 25, 0.2, rand.NewSource(21))
	require.NoError(t, err)

	for _, mode := range []apportion.Mode{apportion.Integers, apportion.Reals} {
		cfg := apportion.Config{
			Mode:  mode,
			Mass:  s.Sum(),
			Block: 13,
		}
		want, err := apportion.Matrix(s, 777, cfg)
		require.NoError(t, err)

		in := memContainer(t, s)
		out, err := store.NewMem(store.LayoutOf(s, store.Float64))
		require.NoError(t, err)
		require.NoError(t, apportion.ChunkedSparse(in, out, 777, cfg))

		got := load(t, out).(*matrix.Sparse)
		require.Equal(t, s.Indices(), got.Indices())
		require.Equal(t, s.Indptr(), got.Indptr())

		ws := want.(*matrix.Sparse)
		gs := got.Compact()
		require.Equal(t, ws.Data(), gs.Data(), "mode %v", mode)
		require.Equal(t, ws.Indices(), gs.Indices())
		require.Equal(t, ws.Indptr(), gs.Indptr())
	}
}

func TestChunkedZeroMass(t *testing.T) {
	zero := newDense(t, 5, 5, nil)
	in := memContainer(t, zero)
	out, err := store.NewMem(store.LayoutOf(zero, store.Uint16))
	require.NoError(t, err)
	require.NoError(t, apportion.ChunkedDense(in, out, 25, apportion.Config{Block: 2}))
	for _, v := range rawOf(load(t, out)) {
		require.Equal(t, 1.0, v)
	}

	// same random cells as the in-memory apportioner
	out, err = store.NewMem(store.LayoutOf(zero, store.Uint16))
	require.NoError(t, err)
	require.NoError(t, apportion.ChunkedDense(in, out, 33, apportion.Config{Block: 2, Source: rand.NewSource(4)}))
	want, err := apportion.Matrix(zero, 33, apportion.Config{Source: rand.NewSource(4)})
	require.NoError(t, err)
	require.Equal(t, rawOf(want), rawOf(load(t, out)))

	// stored zeros
	s, err := matrix.NewSparse(3, 3, []float64{0, 0, 0}, []int32{0, 1, 2}, []int32{0, 1, 2, 3})
	require.NoError(t, err)
	in = memContainer(t, s)
	out, err = store.NewMem(store.LayoutOf(s, store.Float64))
	require.NoError(t, err)
	require.NoError(t, apportion.ChunkedSparse(in, out, 7, apportion.Config{}))
	require.NoError(t, apportion.VerifyContainer(out, 7, apportion.Integers))

	out, err = store.NewMem(store.LayoutOf(s, store.Float64))
	require.NoError(t, err)
	require.NoError(t, apportion.ChunkedSparse(in, out, 7, apportion.Config{Zero: apportion.Skip}))
	require.Equal(t, 0.0, load(t, out).Sum())

	// nothing stored
	empty, err := matrix.FromTriplets(3, 3, nil)
	require.NoError(t, err)
	in = memContainer(t, empty)
	out, err = store.NewMem(store.LayoutOf(empty, store.Float64))
	require.NoError(t, err)
	err = apportion.ChunkedSparse(in, out, 5, apportion.Config{})
	require.ErrorIs(t, err, apportion.ErrInvariant)
	require.NoError(t, apportion.ChunkedSparse(in, out, 0, apportion.Config{}))
}

func TestChunkedErrors(t *testing.T) {
	d := positiveDense(t, 3, 3, 1)
	in := memContainer(t, d)

	out, err := store.NewMem(store.Layout{Rows: 3, Cols: 4})
	require.NoError(t, err)
	err = apportion.ChunkedDense(in, out, 10, apportion.Config{})
	require.ErrorIs(t, err, apportion.ErrShapeMismatch)

	out, err = store.NewMem(store.Layout{Rows: 3, Cols: 3})
	require.NoError(t, err)
	err = apportion.ChunkedDense(in, out, 10.5, apportion.Config{})
	require.ErrorIs(t, err, apportion.ErrInvalidBudget)

	err = apportion.ChunkedSparse(in, out, 10, apportion.Config{})
	require.ErrorIs(t, err, apportion.ErrShapeMismatch)

	s := d.Sparse()
	sin := memContainer(t, s)
	sout, err := store.NewMem(store.Layout{Rows: 3, Cols: 3, Sparse: true, NNZ: 4})
	require.NoError(t, err)
	err = apportion.ChunkedSparse(sin, sout, 10, apportion.Config{})
	require.ErrorIs(t, err, apportion.ErrShapeMismatch)

	// output type too small
	out, err = store.NewMem(store.Layout{Rows: 3, Cols: 3, Dtype: store.Uint16})
	require.NoError(t, err)
	err = apportion.ChunkedDense(in, out, 1_000_000, apportion.Config{})
	require.ErrorIs(t, err, store.ErrRange)
}
