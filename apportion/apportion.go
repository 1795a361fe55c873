// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package apportion implements the trial roulette
// elicitation of Dirichlet hyperparameters:
// a hypothesis matrix is converted into a matrix of chips
// (pseudo-counts)
// that sums exactly to a given budget.
//
// Chips are assigned with the largest-remainder
// (Hamilton) method:
// each cell receives the floor of its share of the budget,
// and the remaining chips go to the cells
// with the largest fractional remainders.
// Among equal remainders,
// the cell that comes first in storage order
// (row-major for dense matrices)
// receives the chip,
// so the result is deterministic.
//
// A matrix can be apportioned as a whole (Matrix),
// row by row (Rows),
// or streamed from a container (ChunkedDense and ChunkedSparse).
// All of them give the same values for the same input.
//
// Sparse matrices only receive chips on stored cells,
// while dense matrices can receive a chip on a zero cell
// when there are more chips to place
// than cells with a positive remainder.
package apportion

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

// Mode is the kind of values of an apportioned matrix.
type Mode int

// Valid modes.
const (
	// Integers assigns whole chips,
	// and the matrix sums exactly to the budget.
	Integers Mode = iota

	// Reals assigns the scaled weights,
	// and the matrix sums to the budget
	// up to floating point error.
	Reals
)

// ParseMode returns a mode from a string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integers", "integer", "int":
		return Integers, nil
	case "reals", "real":
		return Reals, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string {
	switch m {
	case Integers:
		return "integers"
	case Reals:
		return "reals"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ZeroPolicy defines what to do with a matrix
// (or a row)
// without mass.
type ZeroPolicy int

// Valid zero policies.
const (
	// Distribute spreads the budget uniformly
	// over all the cells.
	Distribute ZeroPolicy = iota

	// Skip returns the matrix without changes.
	// The result does not sum to the budget.
	Skip
)

// ParseZeroPolicy returns a zero policy from a string.
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distribute":
		return Distribute, nil
	case "skip":
		return Skip, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

func (z ZeroPolicy) String() string {
	switch z {
	case Distribute:
		return "distribute"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("zero(%d)", int(z))
}

// DefaultBlock is the default block size
// of the chunked apportioners.
const DefaultBlock = 1000

// Tolerance is the relative error accepted
// on the sum of a matrix apportioned as reals.
const Tolerance = 1e-9

// MaxBudget is the largest budget accepted in integers mode.
// Larger values can not be represented exactly.
const MaxBudget = 1 << 53

// Config is the configuration of an apportionment.
// The zero value apportions integer chips,
// distributes the budget on matrices without mass,
// and normalizes the input.
type Config struct {
	Mode Mode
	Zero ZeroPolicy

	// If Normalized is true,
	// the input is taken as already normalized,
	// and weights are only multiplied by the budget.
	Normalized bool

	// Mass is the total mass of the input.
	// If zero,
	// it will be calculated.
	Mass float64

	// CPU is the number of goroutines
	// used to apportion rows.
	// If zero or negative,
	// all available CPUs are used.
	CPU int

	// Block is the number of rows
	// (dense containers)
	// or stored values
	// (sparse containers)
	// read at each step of a chunked apportionment.
	// If zero or negative,
	// DefaultBlock is used.
	Block int

	// Source is the source of random numbers
	// used to spread the remainder of a budget
	// over a matrix without mass.
	// If nil,
	// a source seeded with the current time is used.
	Source rand.Source

	// Logger receives debug messages
	// of chunked apportionments.
	// If nil,
	// messages are discarded.
	Logger *slog.Logger

	// Progress is called after each block
	// of a chunked apportionment
	// with the number of processed and total elements.
	Progress func(done, total int)
}

func (c Config) validate(budget float64) error {
	if c.Mode != Integers && c.Mode != Reals {
		return fmt.Errorf("%w: %v", ErrInvalidMode, c.Mode)
	}
	if c.Zero != Distribute && c.Zero != Skip {
		return fmt.Errorf("%w: %v", ErrInvalidPolicy, c.Zero)
	}
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidBudget, budget)
	}
	if c.Mode == Integers {
		if budget != math.Trunc(budget) {
			return fmt.Errorf("%w: %v is not an integer", ErrInvalidBudget, budget)
		}
		if budget > MaxBudget {
			return fmt.Errorf("%w: %v is too large", ErrInvalidBudget, budget)
		}
	}
	if c.Mass < 0 || math.IsNaN(c.Mass) || math.IsInf(c.Mass, 0) {
		return fmt.Errorf("%w: mass %v", ErrInvalidBudget, c.Mass)
	}
	return nil
}

func (c Config) source() rand.Source {
	if c.Source != nil {
		return c.Source
	}
	return rand.NewSource(uint64(time.Now().UnixNano()))
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c Config) cpu() int {
	if c.CPU <= 0 {
		return runtime.NumCPU()
	}
	return c.CPU
}

func (c Config) block() int {
	if c.Block <= 0 {
		return DefaultBlock
	}
	return c.Block
}

// Scale returns the share of the budget of a weight.
// The same expression is used by every apportioner,
// so they give identical values.
func scale(v, mass, budget float64, normalized bool) float64 {
	if normalized {
		return v * budget
	}
	return v / mass * budget
}
