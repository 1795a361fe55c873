// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package chunked implements a command to apportion
// the chips of a hypothesis matrix
// reading the matrix in blocks.
package chunked

import (
	"log/slog"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `chunked [--param <file>] [--chips <value>]
	[--mass <value>] [--block <value>]
	[--reals] [--skip] [--normalized] [--seed <value>]
	[--dtype <type>] [--chunk <value>] [--container <dir>]
	[--quiet] <project-file>`,
	Short: "apportion the chips of a large hypothesis matrix",
	Long: `
Command chunked reads the hypothesis matrix of a project in blocks, apportions
a budget of chips over its cells, and stores the result as the chips container
of the project. Only the remainders of the cells are kept in memory.

The argument of the command is the name of the project file.

The result is the same as the one of the command 'roulette apportion'. Rows
are not apportioned independently, so the rows parameter is ignored. If the
hypothesis is stored in a sparse container, only stored cells will receive
chips, and the sparsity pattern of the output will be the same as the input.

By default, the parameters defined in the project are used. Use the flag
--param to read the parameters from a different file. Any of the following
flags overrides the corresponding parameter:

	--chips       the budget of chips
	--block       the number of rows (dense) or values (sparse) read at each
	              step
	--reals       assign the scaled weights instead of whole chips
	--skip        leave a matrix without weights without chips
	--normalized  the weights are already normalized
	--seed        seed for the random number generator

By default, the total weight of the matrix is calculated reading the matrix an
additional time. If the total weight is known, use the flag --mass to set it.

By default, chips are stored as uint32 values (float64 in reals mode). Use the
flag --dtype to set a different data type. Use the flag --chunk to set the
number of values in each chunk file of the output container.

By default, the container is stored in the directory "chips" in the project
directory, or in the directory already defined in the project. Use the flag
--container to define a different directory.

By default, a progress bar is shown in the standard error. Use the flag
--quiet to hide it.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var paramFile string
var chips float64
var mass float64
var block int
var realsFlag bool
var skipFlag bool
var normFlag bool
var quiet bool
var seed uint64
var chunk int
var dtypeFlag string
var dirFlag string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&paramFile, "param", "", "")
	c.Flags().Float64Var(&chips, "chips", -1, "")
	c.Flags().Float64Var(&mass, "mass", 0, "")
	c.Flags().IntVar(&block, "block", 0, "")
	c.Flags().BoolVar(&realsFlag, "reals", false, "")
	c.Flags().BoolVar(&skipFlag, "skip", false, "")
	c.Flags().BoolVar(&normFlag, "normalized", false, "")
	c.Flags().BoolVar(&quiet, "quiet", false, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().IntVar(&chunk, "chunk", 0, "")
	c.Flags().StringVar(&dtypeFlag, "dtype", "", "")
	c.Flags().StringVar(&dirFlag, "container", "", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	var pm *params.P
	if paramFile != "" {
		pm, err = params.Read(paramFile)
	} else {
		pm, err = p.Params()
	}
	if err != nil {
		return err
	}

	cfg := pm.Config()
	cfg.Mass = mass
	cfg.Logger = slog.Default()
	if block > 0 {
		cfg.Block = block
	}
	if realsFlag {
		cfg.Mode = apportion.Reals
	}
	if skipFlag {
		cfg.Zero = apportion.Skip
	}
	if normFlag {
		cfg.Normalized = true
	}
	if seed > 0 {
		cfg.Source = rand.NewSource(seed)
	}
	budget := pm.Chips()
	if chips >= 0 {
		budget = chips
	}

	in, err := p.Hypothesis()
	if err != nil {
		return err
	}

	l := in.Layout()
	l.Dtype = store.Uint32
	if cfg.Mode == apportion.Reals {
		l.Dtype = store.Float64
	}
	if dtypeFlag != "" {
		l.Dtype, err = store.ParseDtype(dtypeFlag)
		if err != nil {
			return err
		}
	}
	l.Chunk = chunk

	dir := p.Path(project.Chips)
	if dir == "" {
		dir = "chips"
	}
	if dirFlag != "" {
		dir = dirFlag
	}
	prev := p.Add(project.Chips, dir)

	out, err := p.CreateChips(l)
	if err != nil {
		return err
	}
	defer func() {
		e := out.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if !quiet {
		bar := progressbar.NewOptions(in.NNZ(),
			progressbar.OptionSetWriter(c.Stderr()),
			progressbar.OptionSetDescription("apportion"),
		)
		cfg.Progress = func(done, total int) {
			bar.Set(done)
		}
		defer bar.Finish()
	}

	if in.Sparse() {
		err = apportion.ChunkedSparse(in, out, budget, cfg)
	} else {
		err = apportion.ChunkedDense(in, out, budget, cfg)
	}
	if err != nil {
		return err
	}

	if prev != dir {
		return p.Write()
	}
	return nil
}
