// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mapcmd implements a command to draw
// the matrices of a project as an image.
package mapcmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/heatmap"
	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `map [--hypothesis] [--size <value>] [--log]
	[--gradient <name>] [--hist <value>]
	-o|--output <file> <project-file>`,
	Short: "draw an image of the chips of a project",
	Long: `
Command map draws the apportioned chips of a project as a PNG image, in which
each cell of the matrix is drawn as a square colored by its number of chips.
Cells without chips are drawn in light gray.

The argument of the command is the name of the project file.

The flag --output, or -o, is required and sets the name of the image file.

By default the chips are drawn. Use the flag --hypothesis to draw the
hypothesis matrix instead.

By default each cell is drawn with a side of 4 pixels. Use the flag --size to
change the size of the cells.

If the flag --log is defined, values are drawn with a logarithmic scale.

By default a rainbow color gradient (from purple to red) is used. Use the flag
--gradient to define a different gradient. Valid gradients are:

	gray          a scale from black to gray
	lightgray     a scale from black to light gray
	incandescent  a scale from black to red to yellow to white
	iridescent    a scale from light yellow to blue to dark
	rainbow       a scale from purple to red

If the flag --hist is defined with a number of bins, a histogram of the values
of the cells with a value different from zero will be drawn in a file with the
name of the output file and the suffix "-hist".
	`,
	SetFlags: setFlags,
	Run:      run,
}

var hypFlag bool
var logFlag bool
var size int
var bins int
var gradFlag string
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&hypFlag, "hypothesis", false, "")
	c.Flags().BoolVar(&logFlag, "log", false, "")
	c.Flags().IntVar(&size, "size", 4, "")
	c.Flags().IntVar(&bins, "hist", 0, "")
	c.Flags().StringVar(&gradFlag, "gradient", "rainbow", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if output == "" {
		return c.UsageError("expecting output file, flag --output")
	}

	gr, err := heatmap.ParseGradient(gradFlag)
	if err != nil {
		return err
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

	img := &heatmap.Image{
		M:        m,
		Size:     size,
		Log:      logFlag,
		Gradient: gr,
	}
	img.Format()
	if err := writeImage(output, img); err != nil {
		return err
	}

	if bins > 0 {
		name := strings.TrimSuffix(output, ".png") + "-hist.png"
		if err := histogram(name, m, bins); err != nil {
			return err
		}
	}
	return nil
}

func histogram(name string, m matrix.Matrix, bins int) error {
	var vals plotter.Values
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v > 0 {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("histogram %q: matrix without values", name)
	}

	p := plot.New()
	p.X.Label.Text = "value"
	p.Y.Label.Text = "cells"

	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("histogram %q: %v", name, err)
	}
	p.Add(h)
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}

func writeImage(name string, img image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("when encoding image file %q: %v", name, err)
	}
	return nil
}
