// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Roulette is a tool for the elicitation
// of Dirichlet hyperparameters
// using the trial roulette method.
package main

import (
	"log/slog"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/roulette/cmd/roulette/apportioncmd"
	"github.com/js-arias/roulette/cmd/roulette/check"
	"github.com/js-arias/roulette/cmd/roulette/chunked"
	"github.com/js-arias/roulette/cmd/roulette/export"
	"github.com/js-arias/roulette/cmd/roulette/importcmd"
	"github.com/js-arias/roulette/cmd/roulette/mapcmd"
	"github.com/js-arias/roulette/cmd/roulette/param"
	"github.com/js-arias/roulette/cmd/roulette/prj"
	"github.com/js-arias/roulette/cmd/roulette/sim"
	"github.com/lmittmann/tint"
)

var app = &command.Command{
	Usage: "roulette <command> [<argument>...]",
	Short: "a tool for trial roulette elicitation of Dirichlet hyperparameters",
}

func init() {
	app.Add(apportioncmd.Command)
	app.Add(check.Command)
	app.Add(chunked.Command)
	app.Add(export.Command)
	app.Add(importcmd.Command)
	app.Add(mapcmd.Command)
	app.Add(param.Command)
	app.Add(prj.Command)
	app.Add(sim.Command)
}

func main() {
	level := slog.LevelInfo
	if v := os.Getenv("ROULETTE_LOG"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelInfo
		}
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))

	app.Main()
}
