// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package apportioncmd implements a command to apportion
// the chips of a hypothesis matrix in memory.
package apportioncmd

import (
	"log/slog"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `apportion [--param <file>] [--chips <value>]
	[--rows] [--reals] [--skip] [--normalized]
	[--cpu <value>] [--seed <value>] [--dtype <type>]
	[--container <dir>] <project-file>`,
	Short: "apportion the chips of a hypothesis matrix",
	Long: `
Command apportion reads the hypothesis matrix of a project, apportions a
budget of chips over its cells, and stores the result as the chips container
of the project. The whole matrix is read into memory; for matrices too large
to fit in memory use the command 'roulette chunked'.

The argument of the command is the name of the project file.

Chips are assigned with the largest-remainder method: each cell receives the
floor of its share of the budget, and the remaining chips are given to the
cells with the largest remainders, so the result sums exactly to the budget.

By default, the parameters defined in the project are used. Use the flag
--param to read the parameters from a different file. Any of the following
flags overrides the corresponding parameter:

	--chips       the budget of chips
	--rows        each row receives its own budget
	--reals       assign the scaled weights instead of whole chips
	--skip        leave matrices (or rows) without weights without chips
	--normalized  the weights are already normalized
	--cpu         number of goroutines used to apportion rows
	--seed        seed for the random number generator

By default, chips are stored as uint32 values (float64 in reals mode). Use the
flag --dtype to set a different data type.

By default, the container is stored in the directory "chips" in the project
directory, or in the directory already defined in the project. Use the flag
--container to define a different directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var paramFile string
var chips float64
var rowsFlag bool
var realsFlag bool
var skipFlag bool
var normFlag bool
var cpu int
var seed uint64
var dtypeFlag string
var dirFlag string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().Float64Var(&chips, "chips", -1, "")
	c.Flags().BoolVar(&rowsFlag, "rows", false, "")
	c.Flags().BoolVar(&realsFlag, "reals", false, "")
	c.Flags().BoolVar(&skipFlag, "skip", false, "")
	c.Flags().BoolVar(&normFlag, "normalized", false, "")
	c.Flags().IntVar(&cpu, "cpu", -1, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&dtypeFlag, "dtype", "", "")
	c.Flags().StringVar(&dirFlag, "container", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	pm, err := readParams(p)
	if err != nil {
		return err
	}
	cfg := pm.Config()
	if realsFlag {
		cfg.Mode = apportion.Reals
	}
	if skipFlag {
		cfg.Zero = apportion.Skip
	}
	if normFlag {
		cfg.Normalized = true
	}
	if cpu >= 0 {
		cfg.CPU = cpu
	}
	if seed > 0 {
		cfg.Source = rand.NewSource(seed)
	}
	budget := pm.Chips()
	if chips >= 0 {
		budget = chips
	}

	dtype, err := outType(cfg.Mode)
	if err != nil {
		return err
	}

	in, err := p.Hypothesis()
	if err != nil {
		return err
	}
	m, err := store.Load(in)
	if err != nil {
		return err
	}

	var a matrix.Matrix
	if rowsFlag || pm.Rows() {
		a, err = apportion.Rows(m, budget, cfg)
	} else {
		a, err = apportion.Matrix(m, budget, cfg)
	}
	if err != nil {
		return err
	}

	dir := p.Path(project.Chips)
	if dir == "" {
		dir = "chips"
	}
	if dirFlag != "" {
		dir = dirFlag
	}
	prev := p.Add(project.Chips, dir)

	if err := saveChips(p, a, dtype); err != nil {
		return err
	}
	slog.Info("chips apportioned", "budget", budget, "mode", cfg.Mode, "rows", rowsFlag || pm.Rows(), "container", dir)

	if prev != dir {
		return p.Write()
	}
	return nil
}

func saveChips(p *project.Project, m matrix.Matrix, dtype store.Dtype) (err error) {
	out, err := p.CreateChips(store.LayoutOf(m, dtype))
	if err != nil {
		return err
	}
	defer func() {
		e := out.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	return store.Write(out, m)
}

func readParams(p *project.Project) (*params.P, error) {
	if paramFile != "" {
		return params.Read(paramFile)
	}
	return p.Params()
}

func outType(m apportion.Mode) (store.Dtype, error) {
	if dtypeFlag != "" {
		return store.ParseDtype(dtypeFlag)
	}
	if m == apportion.Reals {
		return store.Float64, nil
	}
	return store.Uint32, nil
}
