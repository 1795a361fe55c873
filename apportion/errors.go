// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import "errors"

// Errors returned by the apportioners.
// No partial result is returned with an error.
var (
	// ErrInvalidMode is returned for an unknown mode.
	ErrInvalidMode = errors.New("apportion: invalid mode")

	// ErrInvalidPolicy is returned for an unknown zero policy.
	ErrInvalidPolicy = errors.New("apportion: invalid zero policy")

	// ErrInvalidBudget is returned for a negative or non-finite budget,
	// or a non-integer budget in integers mode.
	ErrInvalidBudget = errors.New("apportion: invalid budget")

	// ErrShapeMismatch is returned when the input
	// and the output do not have the same shape.
	ErrShapeMismatch = errors.New("apportion: shape mismatch")

	// ErrInvariant is returned when the apportioned matrix
	// does not sum to the budget.
	ErrInvariant = errors.New("apportion: sum invariant violated")
)
