// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import "slices"

// Largest returns the positions of the k largest values,
// in increasing order.
// Among equal values the earlier position is selected.
//
// It does not sort the values:
// the k-th largest value is found with a quickselect,
// and then the values are scanned in order.
func largest(vals []float64, k int) []int {
	if k <= 0 {
		return nil
	}
	if k >= len(vals) {
		all := make([]int, len(vals))
		for i := range all {
			all[i] = i
		}
		return all
	}

	t := kth(slices.Clone(vals), k)
	sel := make([]int, 0, k)
	for i, v := range vals {
		if v > t {
			sel = append(sel, i)
		}
	}
	for i, v := range vals {
		if len(sel) == k {
			break
		}
		if v == t {
			sel = append(sel, i)
		}
	}
	slices.Sort(sel)
	return sel
}

// Kth returns the k-th largest value
// (starting from 1).
// The slice is reordered.
func kth(a []float64, k int) float64 {
	k--
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := medianOf3(a[lo], a[lo+(hi-lo)/2], a[hi])

		// three-way partition in decreasing order:
		// a[lo:lt] > p, a[lt:gt+1] == p, a[gt+1:hi+1] < p
		lt, i, gt := lo, lo, hi
		for i <= gt {
			switch {
			case a[i] > p:
				a[lt], a[i] = a[i], a[lt]
				lt++
				i++
			case a[i] < p:
				a[i], a[gt] = a[gt], a[i]
				gt--
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt - 1
		case k > gt:
			lo = gt + 1
		default:
			return p
		}
	}
	return a[k]
}

func medianOf3(x, y, z float64) float64 {
	if x > y {
		x, y = y, x
	}
	if y > z {
		y = z
	}
	if x > y {
		return x
	}
	return y
}
