// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestLargest(t *testing.T) {
	tests := map[string]struct {
		vals []float64
		k    int
		want []int
	}{
		"ties": {
			vals: []float64{0.5, 0.9, 0.5, 0.1, 0.9},
			k:    3,
			want: []int{0, 1, 4},
		},
		"all equal": {
			vals: []float64{0.25, 0.25, 0.25, 0.25},
			k:    2,
			want: []int{0, 1},
		},
		"none": {
			vals: []float64{0.3, 0.2},
			k:    0,
			want: nil,
		},
		"all": {
			vals: []float64{0.3, 0.2, 0.7},
			k:    3,
			want: []int{0, 1, 2},
		},
		"single": {
			vals: []float64{0.1, 0.2, 0.7, 0.4},
			k:    1,
			want: []int{2},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := largest(test.vals, test.k)
			require.Equal(t, test.want, got)
		})
	}
}

func TestKth(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		n := rnd.Intn(200) + 1
		vals := make([]float64, n)
		for i := range vals {
			// few distinct values to force ties
			vals[i] = float64(rnd.Intn(10)) / 10
		}
		sorted := slices.Clone(vals)
		slices.Sort(sorted)
		slices.Reverse(sorted)

		k := rnd.Intn(n) + 1
		got := kth(slices.Clone(vals), k)
		require.Equal(t, sorted[k-1], got, "k = %d, values %v", k, vals)

		sel := largest(vals, k)
		require.Len(t, sel, k)
		var sum, want float64
		for _, p := range sel {
			sum += vals[p]
		}
		for _, v := range sorted[:k] {
			want += v
		}
		require.InDelta(t, want, sum, 1e-9)
	}
}
