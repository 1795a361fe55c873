// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the apportionment parameters of a project.
package param

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/project"
)

var Command = &command.Command{
	Usage: `param [--add <param-file>] [--file <file-name>]
	[--chips <value>] [--mode <value>] [--zero <value>]
	[--normalized <bool>] [--rows <bool>]
	[--block <value>] [--cpu <value>] [--seed <value>]
	<project-file>`,
	Short: "manage apportionment parameters",
	Long: `
Command param manages the parameters used to apportion the chips of a
hypothesis matrix in a roulette project.

The argument of the command is the name of the project file. If the project
does not exist, it will be created.

By default, the command will print the currently defined parameters.

If the flag --add is defined, it will use the indicated file for the
apportionment parameters.

By default, any change on the parameters will be stored in the current
parameters file. Use the flag --file to define a new parameters file. If the
project does not have a parameters file, and --file is not defined, the file
"params.tab" will be used.

The flag --chips sets the budget of chips. The flag --mode sets the kind of
values, either "integers" or "reals". The flag --zero sets the policy for
matrices (or rows) without weights, either "distribute" or "skip". The flag
--normalized indicates that the weights are already normalized. The flag
--rows indicates that each row receives its own budget. The flag --block sets
the block size of a chunked apportionment. The flag --cpu sets the number of
goroutines used to apportion rows. The flag --seed sets the seed of the
random number generator.

See 'roulette help parameters' for a description of each parameter.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var paramFile string
var modeFlag string
var zeroFlag string
var normFlag string
var rowsFlag string
var chips float64
var block int
var cpu int
var seed uint64

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().StringVar(&modeFlag, "mode", "", "")
	c.Flags().StringVar(&zeroFlag, "zero", "", "")
	c.Flags().StringVar(&normFlag, "normalized", "", "")
	c.Flags().StringVar(&rowsFlag, "rows", "", "")
	c.Flags().Float64Var(&chips, "chips", -1, "")
	c.Flags().IntVar(&block, "block", 0, "")
	c.Flags().IntVar(&cpu, "cpu", -1, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if errors.Is(err, fs.ErrNotExist) {
		p = project.New()
		p.SetName(args[0])
	} else if err != nil {
		return err
	}

	if addFile != "" {
		if _, err := params.Read(addFile); err != nil {
			return err
		}
		p.Add(project.Params, addFile)
		return p.Write()
	}

	pm, err := p.Params()
	if err != nil {
		return err
	}

	path := p.Path(project.Params)
	if path == "" {
		path = "params.tab"
	}
	if paramFile != "" {
		path = paramFile
	}
	prev := p.Add(project.Params, path)
	pm.SetName(p.Resolve(project.Params))

	ed, err := setParams(c, pm)
	if err != nil {
		return err
	}

	if prev != path {
		if err := pm.Write(); err != nil {
			return err
		}
		return p.Write()
	}
	if ed {
		return pm.Write()
	}

	printParams(c.Stdout(), pm)
	return nil
}

func setParams(c *command.Command, pm *params.P) (bool, error) {
	ed := false
	if chips >= 0 {
		if err := pm.SetChips(chips); err != nil {
			return false, err
		}
		ed = true
	}
	if modeFlag != "" {
		m, err := apportion.ParseMode(modeFlag)
		if err != nil {
			return false, err
		}
		if err := pm.SetMode(m); err != nil {
			return false, err
		}
		ed = true
	}
	if zeroFlag != "" {
		z, err := apportion.ParseZeroPolicy(zeroFlag)
		if err != nil {
			return false, err
		}
		if err := pm.SetZero(z); err != nil {
			return false, err
		}
		ed = true
	}
	if normFlag != "" {
		b, err := parseBool(c, "normalized", normFlag)
		if err != nil {
			return false, err
		}
		pm.SetNormalized(b)
		ed = true
	}
	if rowsFlag != "" {
		b, err := parseBool(c, "rows", rowsFlag)
		if err != nil {
			return false, err
		}
		pm.SetRows(b)
		ed = true
	}
	if block > 0 {
		if err := pm.SetBlock(block); err != nil {
			return false, err
		}
		ed = true
	}
	if cpu >= 0 {
		pm.SetCPU(cpu)
		ed = true
	}
	if seed > 0 {
		pm.SetSeed(seed)
		ed = true
	}
	return ed, nil
}

func parseBool(c *command.Command, flag, v string) (bool, error) {
	switch v {
	case "true", "t", "1", "yes":
		return true, nil
	case "false", "f", "0", "no":
		return false, nil
	}
	return false, c.UsageError(fmt.Sprintf("flag --%s: invalid value %q", flag, v))
}

func printParams(w io.Writer, pm *params.P) {
	fmt.Fprintf(w, "file:       %s\n", pm.Name())
	fmt.Fprintf(w, "chips:      %v\n", pm.Chips())
	fmt.Fprintf(w, "mode:       %s\n", pm.Mode())
	fmt.Fprintf(w, "zero:       %s\n", pm.Zero())
	fmt.Fprintf(w, "normalized: %v\n", pm.Normalized())
	fmt.Fprintf(w, "rows:       %v\n", pm.Rows())
	fmt.Fprintf(w, "block:      %d\n", pm.Block())
	if c := pm.CPU(); c > 0 {
		fmt.Fprintf(w, "cpu:        %d\n", c)
	}
	if s := pm.Seed(); s > 0 {
		fmt.Fprintf(w, "seed:       %d\n", s)
	}
}
