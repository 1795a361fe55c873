// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package importcmd implements a command to import
// a hypothesis matrix from a tab-delimited file.
package importcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
)

var Command = &command.Command{
	Usage: `import [--rows <value>] [--cols <value>] [--dense]
	[--dtype <type>] [--container <dir>]
	-i|--input <file> <project-file>`,
	Short: "import a hypothesis matrix",
	Long: `
Command import reads a hypothesis matrix from a tab-delimited file and stores
it as the hypothesis matrix container of a roulette project.

The argument of the command is the name of the project file. If the project
does not exist, it will be created.

The flag --input, or -i, is required and indicates the input file. The input
file is a tab-delimited file with the following fields:

	- row     the row of the cell (starting at 0)
	- col     the column of the cell (starting at 0)
	- weight  the weight of the cell, a nonnegative value

Cells not in the file have a weight of zero. If a cell is repeated, the
weights are added.

By default, the number of rows and columns is taken from the largest row and
column in the file. Use the flags --rows and --cols to define the shape of the
matrix.

By default, the matrix is stored in a sparse (compressed-row) container. Use
the flag --dense to store every cell. By default, weights are stored as
float64 values; use the flag --dtype to set a different data type (float32,
uint16, uint32, int32).

By default, the container is stored in the directory "hypothesis" in the
project directory, or in the directory already defined in the project. Use
the flag --container to define a different directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var denseFlag bool
var rowsFlag int
var colsFlag int
var dtypeFlag string
var inputFile string
var dirFlag string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&denseFlag, "dense", false, "")
	c.Flags().IntVar(&rowsFlag, "rows", 0, "")
	c.Flags().IntVar(&colsFlag, "cols", 0, "")
	c.Flags().StringVar(&dtypeFlag, "dtype", "float64", "")
	c.Flags().StringVar(&inputFile, "input", "", "")
	c.Flags().StringVar(&inputFile, "i", "", "")
	c.Flags().StringVar(&dirFlag, "container", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if inputFile == "" {
		return c.UsageError("expecting input file, flag --input")
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

	m, err := readMatrix(inputFile)
	if err != nil {
		return err
	}
	var hm matrix.Matrix = m
	if denseFlag {
		hm = m.Dense()
	}

	dir := p.Path(project.Hypothesis)
	if dir == "" {
		dir = "hypothesis"
	}
	if dirFlag != "" {
		dir = dirFlag
	}
	prev := p.Add(project.Hypothesis, dir)

	if err := store.Save(p.Resolve(project.Hypothesis), hm, dtype); err != nil {
		return err
	}
	r, cols := hm.Dims()
	slog.Info("hypothesis imported", "rows", r, "cols", cols, "nonzero", hm.NNZ(), "container", dir)

	if prev != dir {
		return p.Write()
	}
	return nil
}

func readMatrix(name string) (*matrix.Sparse, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := matrix.ReadTSV(f, rowsFlag, colsFlag)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return m, nil
}
