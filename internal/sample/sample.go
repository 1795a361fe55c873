// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sample implements sampling without replacement.
package sample

import (
	"slices"

	"golang.org/x/exp/rand"
)

// Distinct returns k distinct values
// drawn uniformly from [0, n),
// in increasing order.
// It uses Floyd's algorithm,
// so memory is proportional to k.
func Distinct(r *rand.Rand, n, k int) []int {
	if k <= 0 {
		return nil
	}
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	set := make(map[int]bool, k)
	for j := n - k; j < n; j++ {
		t := int(r.Int63n(int64(j) + 1))
		if set[t] {
			t = j
		}
		set[t] = true
	}

	vals := make([]int, 0, k)
	for v := range set {
		vals = append(vals, v)
	}
	slices.Sort(vals)
	return vals
}
