// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sample_test

import (
	"slices"
	"testing"

	"github.com/js-arias/roulette/internal/sample"
	"golang.org/x/exp/rand"
)

func TestDistinct(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, k := range []int{0, 1, 5, 50, 99} {
		v := sample.Distinct(r, 100, k)
		if len(v) != k {
			t.Errorf("k %d: got %d values", k, len(v))
			continue
		}
		if !slices.IsSorted(v) {
			t.Errorf("k %d: values not sorted: %v", k, v)
		}
		for i, x := range v {
			if x < 0 || x >= 100 {
				t.Errorf("k %d: value %d out of range", k, x)
			}
			if i > 0 && v[i-1] == x {
				t.Errorf("k %d: repeated value %d", k, x)
			}
		}
	}

	all := sample.Distinct(r, 4, 10)
	if !slices.Equal(all, []int{0, 1, 2, 3}) {
		t.Errorf("k > n: got %v, want %v", all, []int{0, 1, 2, 3})
	}

	a := sample.Distinct(rand.New(rand.NewSource(3)), 1000, 20)
	b := sample.Distinct(rand.New(rand.NewSource(3)), 1000, 20)
	if !slices.Equal(a, b) {
		t.Errorf("same seed: got %v and %v", a, b)
	}
}
