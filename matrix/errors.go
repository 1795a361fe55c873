// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import "errors"

var (
	// ErrBadShape is returned when a matrix shape is invalid,
	// or two matrices have incompatible shapes.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange is returned when a row or column index
	// is outside the matrix.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrInvalidWeight is returned when a weight is negative,
	// NaN, or infinite.
	ErrInvalidWeight = errors.New("matrix: invalid weight")

	// ErrBadLayout is returned when the arrays
	// of a compressed-row matrix are inconsistent.
	ErrBadLayout = errors.New("matrix: invalid compressed-row layout")
)
