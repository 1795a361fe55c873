// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package export implements a command to write
// the matrices of a project as a TSV file.
package export

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
)

var Command = &command.Command{
	Usage: "export [--hypothesis] [-o|--output <file>] <project-file>",
	Short: "export the chips of a project",
	Long: `
Command export writes the apportioned chips of a project as a TSV file. The
file has the following columns:

	row     the row of the cell (zero-based)
	col     the column of the cell (zero-based)
	weight  the number of chips of the cell

Only cells with a value different from zero are written.

The argument of the command is the name of the project file.

By default the chips are exported. Use the flag --hypothesis to export the
hypothesis matrix instead.

By default the output is printed in the standard output. Use the flag --output,
or -o, to define an output file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var hypFlag bool
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&hypFlag, "hypothesis", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	var ct *store.Container
	if hypFlag {
		ct, err = p.Hypothesis()
	} else {
		ct, err = p.Chips()
	}
	if err != nil {
		return err
	}
	m, err := store.Load(ct)
	if err != nil {
		return fmt.Errorf("on container %q: %v", ct.Dir(), err)
	}

	if output == "" {
		return matrix.TSV(c.Stdout(), m)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := matrix.TSV(f, m); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}
	return nil
}
