// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to build
// a random hypothesis matrix.
package sim

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `sim --rows <value> --cols <value>
	[--density <value>] [--dense] [--seed <value>]
	[--dtype <type>] [--chunk <value>] [--container <dir>]
	<project-file>`,
	Short: "build a random hypothesis matrix",
	Long: `
Command sim builds a random hypothesis matrix and stores it as the hypothesis
of a project. It is useful to test the apportionment of large matrices.

The argument of the command is the name of the project file. If the project
does not exist, it will be created.

The flags --rows and --cols are required and define the shape of the matrix.

The flag --density sets the proportion of cells with a weight. By default it is
0.1. The weights are drawn from an uniform distribution between 0 and 1.

By default the matrix is stored in compressed-row layout. Use the flag --dense
to store it as a dense matrix.

By default, the seed of the random number generator is taken from the current
time. Use the flag --seed to set a different seed.

By default the values are stored as float64. Use the flag --dtype to set a
different data type, and the flag --chunk to set the number of values in each
chunk file.

By default, the container is stored in the directory "hypothesis" in the
project directory, or in the directory already defined in the project. Use
the flag --container to define a different directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var rowsFlag int
var colsFlag int
var density float64
var denseFlag bool
var seed uint64
var dtypeFlag string
var chunk int
var dirFlag string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&rowsFlag, "rows", 0, "")
	c.Flags().IntVar(&colsFlag, "cols", 0, "")
	c.Flags().Float64Var(&density, "density", 0.1, "")
	c.Flags().BoolVar(&denseFlag, "dense", false, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&dtypeFlag, "dtype", "float64", "")
	c.Flags().IntVar(&chunk, "chunk", 0, "")
	c.Flags().StringVar(&dirFlag, "container", "", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if rowsFlag <= 0 || colsFlag <= 0 {
		return c.UsageError("expecting matrix shape, flags --rows and --cols")
	}

	dtype, err := store.ParseDtype(dtypeFlag)
	if err != nil {
		return err
	}

	p, err := project.Read(args[0])
	if errors.Is(err, fs.ErrNotExist) {
		p = project.New()
		p.SetName(args[0])
	} else if err != nil {
		return err
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s, err := matrix.Random(rowsFlag, colsFlag, density, rand.NewSource(seed))
	if err != nil {
		return err
	}
	var m matrix.Matrix = s
	if denseFlag {
		m = s.Dense()
	}

	dir := p.Path(project.Hypothesis)
	if dir == "" {
		dir = "hypothesis"
	}
	if dirFlag != "" {
		dir = dirFlag
	}
	prev := p.Add(project.Hypothesis, dir)

	l := store.LayoutOf(m, dtype)
	l.Chunk = chunk
	ct, err := store.Create(p.Resolve(project.Hypothesis), l)
	if err != nil {
		return err
	}
	defer func() {
		e := ct.Close()
		if e != nil && err == nil {
			err = e
		}
	}()
	if err := store.Write(ct, m); err != nil {
		return err
	}
	slog.Info("random hypothesis", "rows", rowsFlag, "cols", colsFlag, "nonzero", s.Len(), "seed", seed, "container", dir)

	if prev != dir {
		return p.Write()
	}
	return nil
}
