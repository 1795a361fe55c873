// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package params implements reading and writing
// of the parameters of an apportionment.
package params

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/roulette/apportion"
	"golang.org/x/exp/rand"
)

// Param is a keyword to identify
// the type of parameter in a parameters file.
type Param string

// Valid parameters
const (
	// Block is the number of rows
	// (or stored values)
	// read at each step of a chunked apportionment.
	Block Param = "block"

	// Chips is the budget of chips.
	Chips Param = "chips"

	// CPU is the number of goroutines
	// used to apportion rows.
	CPU Param = "cpu"

	// Mode is the kind of values
	// (integers or reals).
	Mode Param = "mode"

	// Normalized indicates that the input
	// is already normalized.
	Normalized Param = "normalized"

	// Rows indicates that each row
	// receives its own budget.
	Rows Param = "rows"

	// Seed is the seed for the random number generator.
	// Zero means a seed taken from the current time.
	Seed Param = "seed"

	// Zero is the policy for matrices
	// (or rows)
	// without mass.
	Zero Param = "zero"
)

// P represents a collection of apportionment parameters.
type P struct {
	name string // file name

	chips float64
	mode  apportion.Mode
	zero  apportion.ZeroPolicy
	norm  bool
	rows  bool

	block int
	cpu   int
	seed  uint64
}

// DefaultChips is the default budget of chips.
const DefaultChips = 1000

// New creates a new parameter collection.
func New(name string) *P {
	return &P{
		name:  name,
		chips: DefaultChips,
		block: apportion.DefaultBlock,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a parameters file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# roulette apportionment parameters
//	parameter	value
//	chips	10000
//	mode	integers
//	zero	distribute
//	normalized	false
//	rows	true
//	block	1000
//	cpu	0
//	seed	42
//
// Unknown parameters are ignored.
func Read(name string) (*P, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	p := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		pm := Param(strings.ToLower(row[fields[f]]))

		f = "value"
		val := row[fields[f]]
		if err := p.set(pm, val); err != nil {
			return nil, fmt.Errorf("on file %q: on row %d, field %q: %w", name, ln, f, err)
		}
	}
	return p, nil
}

func (p *P) set(pm Param, val string) error {
	switch pm {
	case Block:
		b, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		return p.SetBlock(b)
	case Chips:
		c, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		return p.SetChips(c)
	case CPU:
		c, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		p.SetCPU(c)
	case Mode:
		m, err := apportion.ParseMode(val)
		if err != nil {
			return err
		}
		p.mode = m
	case Normalized:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		p.norm = b
	case Rows:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		p.rows = b
	case Seed:
		s, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return err
		}
		p.seed = s
	case Zero:
		z, err := apportion.ParseZeroPolicy(val)
		if err != nil {
			return err
		}
		p.zero = z
	}
	return nil
}

// Name returns the file name
// of the parameter collection.
func (p *P) Name() string {
	return p.name
}

// Block returns the block size
// of a chunked apportionment.
func (p *P) Block() int {
	return p.block
}

// Chips returns the budget of chips.
func (p *P) Chips() float64 {
	return p.chips
}

// CPU returns the number of goroutines
// used to apportion rows.
// Zero means all CPUs.
func (p *P) CPU() int {
	return p.cpu
}

// Mode returns the apportionment mode.
func (p *P) Mode() apportion.Mode {
	return p.mode
}

// Normalized returns true if the input
// is taken as already normalized.
func (p *P) Normalized() bool {
	return p.norm
}

// Rows returns true if each row
// is apportioned with its own budget.
func (p *P) Rows() bool {
	return p.rows
}

// Seed returns the seed
// of the random number generator.
func (p *P) Seed() uint64 {
	return p.seed
}

// Zero returns the policy for matrices without mass.
func (p *P) Zero() apportion.ZeroPolicy {
	return p.zero
}

// Config returns the apportionment configuration
// defined by the parameters.
// If the seed is zero,
// the random source is left undefined,
// so it will be seeded with the current time.
func (p *P) Config() apportion.Config {
	cfg := apportion.Config{
		Mode:       p.mode,
		Zero:       p.zero,
		Normalized: p.norm,
		CPU:        p.cpu,
		Block:      p.block,
	}
	if p.seed != 0 {
		cfg.Source = rand.NewSource(p.seed)
	}
	return cfg
}

// SetBlock sets the block size
// of a chunked apportionment.
func (p *P) SetBlock(b int) error {
	if b < 1 {
		return fmt.Errorf("invalid block size: %d", b)
	}
	p.block = b
	return nil
}

// SetChips sets the budget of chips.
// In integers mode
// the budget must be an integer.
func (p *P) SetChips(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return fmt.Errorf("%w: %v", apportion.ErrInvalidBudget, c)
	}
	p.chips = c
	return nil
}

// SetCPU sets the number of goroutines
// used to apportion rows.
// Zero or negative means all CPUs.
func (p *P) SetCPU(c int) {
	if c < 0 {
		c = 0
	}
	p.cpu = c
}

// SetMode sets the apportionment mode.
func (p *P) SetMode(m apportion.Mode) error {
	if m != apportion.Integers && m != apportion.Reals {
		return fmt.Errorf("%w: %v", apportion.ErrInvalidMode, m)
	}
	p.mode = m
	return nil
}

// SetName sets the file name of a parameter collection.
func (p *P) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	p.name = name
}

// SetNormalized sets whether the input
// is taken as already normalized.
func (p *P) SetNormalized(n bool) {
	p.norm = n
}

// SetRows sets whether each row
// is apportioned with its own budget.
func (p *P) SetRows(r bool) {
	p.rows = r
}

// SetSeed sets the seed of the random number generator.
func (p *P) SetSeed(s uint64) {
	p.seed = s
}

// SetZero sets the policy for matrices without mass.
func (p *P) SetZero(z apportion.ZeroPolicy) error {
	if z != apportion.Distribute && z != apportion.Skip {
		return fmt.Errorf("%w: %v", apportion.ErrInvalidPolicy, z)
	}
	p.zero = z
	return nil
}

// Write writes a parameter collection into a file.
func (p *P) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# roulette apportionment parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", p.name, err)
	}

	rows := [][]string{
		{string(Chips), strconv.FormatFloat(p.chips, 'g', -1, 64)},
		{string(Mode), p.mode.String()},
		{string(Zero), p.zero.String()},
		{string(Normalized), strconv.FormatBool(p.norm)},
		{string(Rows), strconv.FormatBool(p.rows)},
		{string(Block), strconv.Itoa(p.block)},
		{string(CPU), strconv.Itoa(p.cpu)},
		{string(Seed), strconv.FormatUint(p.seed, 10)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", p.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	return nil
}
