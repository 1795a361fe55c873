// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package check implements a command to verify
// the apportioned chips of a project.
package check

import (
	"fmt"
	"math"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
	"gonum.org/v1/gonum/stat"
)

var Command = &command.Command{
	Usage: "check [--chips <value>] [--reals] [--stats] <project-file>",
	Short: "verify the chips of a project",
	Long: `
Command check reads the apportioned chips of a project and verifies that they
add up to the budget of chips. In integers mode, every cell must hold a whole
number of chips and the total must be exact. In reals mode, the relative error
of the total must be within 1e-9.

The argument of the command is the name of the project file.

By default, the budget and mode are taken from the project parameters. Use the
flag --chips to set a different budget, and the flag --reals to check using
reals mode.

If the flag --stats is defined, the mean, standard deviation, minimum, and
maximum of the number of chips per row will be printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var chips float64
var realsFlag bool
var statsFlag bool

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&chips, "chips", -1, "")
	c.Flags().BoolVar(&realsFlag, "reals", false, "")
	c.Flags().BoolVar(&statsFlag, "stats", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	pm, err := p.Params()
	if err != nil {
		return err
	}
	budget := pm.Chips()
	if chips >= 0 {
		budget = chips
	}
	mode := pm.Mode()
	if realsFlag {
		mode = apportion.Reals
	}

	ct, err := p.Chips()
	if err != nil {
		return err
	}
	if err := apportion.VerifyContainer(ct, budget, mode); err != nil {
		return fmt.Errorf("on container %q: %w", ct.Dir(), err)
	}
	fmt.Fprintf(c.Stdout(), "ok: %d x %d matrix with %v chips\n", ct.Layout().Rows, ct.Layout().Cols, budget)

	if !statsFlag {
		return nil
	}
	m, err := store.Load(ct)
	if err != nil {
		return fmt.Errorf("on container %q: %v", ct.Dir(), err)
	}
	printStats(c, matrix.RowSums(m))
	return nil
}

func printStats(c *command.Command, sums []float64) {
	mean, sd := stat.MeanStdDev(sums, nil)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range sums {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	fmt.Fprintf(c.Stdout(), "rows\t%d\n", len(sums))
	fmt.Fprintf(c.Stdout(), "mean\t%.6f\n", mean)
	fmt.Fprintf(c.Stdout(), "sd\t%.6f\n", sd)
	fmt.Fprintf(c.Stdout(), "min\t%.6f\n", lo)
	fmt.Fprintf(c.Stdout(), "max\t%.6f\n", hi)
}
