// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a roulette project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	if p.Path(project.Hypothesis) != "" {
		ct, err := p.Hypothesis()
		if err != nil {
			return err
		}
		printContainer(c.Stdout(), "Hypothesis matrix", p.Path(project.Hypothesis), ct)
	}

	if p.Path(project.Chips) != "" {
		ct, err := p.Chips()
		if err != nil {
			return err
		}
		printContainer(c.Stdout(), "Chips", p.Path(project.Chips), ct)
	}

	pm, err := p.Params()
	if err != nil {
		return err
	}
	printParams(c.Stdout(), p.Path(project.Params), pm)
	return nil
}

func printContainer(w io.Writer, title, path string, ct *store.Container) {
	l := ct.Layout()
	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintf(w, "\tcontainer: %s\n", path)
	fmt.Fprintf(w, "\tshape: %d x %d\n", l.Rows, l.Cols)
	if l.Sparse {
		fmt.Fprintf(w, "\tlayout: sparse [%d stored values]\n", l.NNZ)
	} else {
		fmt.Fprintf(w, "\tlayout: dense\n")
	}
	fmt.Fprintf(w, "\tdata type: %s\n", l.Dtype)
	fmt.Fprintf(w, "\tchunk: %d\n", l.Chunk)
	fmt.Fprintf(w, "\n")
}

func printParams(w io.Writer, path string, pm *params.P) {
	fmt.Fprintf(w, "Parameters:\n")
	if path == "" {
		path = "(default)"
	}
	fmt.Fprintf(w, "\tfile: %s\n", path)
	fmt.Fprintf(w, "\tchips: %v\n", pm.Chips())
	fmt.Fprintf(w, "\tmode: %s\n", pm.Mode())
	fmt.Fprintf(w, "\tzero: %s\n", pm.Zero())
	fmt.Fprintf(w, "\tnormalized: %v\n", pm.Normalized())
	fmt.Fprintf(w, "\trows: %v\n", pm.Rows())
	fmt.Fprintf(w, "\tblock: %d\n", pm.Block())
	fmt.Fprintf(w, "\n")
}
