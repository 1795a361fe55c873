// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(containersGuide)
	app.Add(parametersGuide)
	app.Add(projectsGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Roulette requires several files to read and process a hypothesis matrix. To
reduce the burden of keeping track of many files, a single project file is
used to hold the reference of all files required in the analysis. This guide
explains the structure of the file, but most of the time, the best and most
secure way to edit or view this file is by using roulette commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# roulette project files
	dataset	path
	hypothesis	hypothesis
	chips	chips
	params	params.tab

Relative paths are read from the directory of the project file.

The valid file types are:

- Hypothesis matrix. Defined by the dataset keyword "hypothesis". It is the
  directory of a matrix container with the weights of the hypothesis. The
  recommended way to add a hypothesis matrix is by using the commands
  'roulette import' or 'roulette sim'.
- Chips. Defined by the dataset keyword "chips". It is the directory of a
  matrix container with the apportioned chips. It is written by the commands
  'roulette apportion' and 'roulette chunked'.
- Parameters. Defined by the dataset keyword "params". This file contains the
  parameters of the apportionment in the form of a tab-delimited file. The
  recommended way to edit the parameters is by using the command
  'roulette param'.
	`,
}

var containersGuide = &command.Command{
	Usage: "containers",
	Short: "about matrix containers",
	Long: `
In roulette, matrices are stored in containers, so matrices too large to be
kept in memory can be read and written in blocks.

A container is a directory with a manifest file, "container.tab", and one or
more compressed chunk files for each array of the matrix. A dense container
has a single array, "data", with the value of every cell in row-major order.
A sparse container uses a compressed-row layout, with three arrays:

	- data     the stored values
	- indices  the column of each stored value
	- indptr   the offset of each row in data and indices (one more than
	           the number of rows)

The manifest is a tab-delimited file with the following fields:

	- key    the name of a container property
	- value  the value of the property

Here is an example file:

	# roulette matrix container
	key	value
	rows	100
	cols	100
	chunk	65536
	data	float64:1000
	indices	int32:1000
	indptr	int32:101

Arrays are described by their data type and length. Valid data types are
float64, float32, uint16, uint32 and int32 (indices and indptr are always
int32). Each array is split in chunks of "chunk" values, stored in the files
<array>-<chunk>.gz as little-endian values compressed with gzip. A chunk file
that does not exist is read as zeros.

To import a matrix from a tab-delimited file of cells use the command
'roulette import', to export a container as a tab-delimited file use the
command 'roulette export'.
	`,
}

var parametersGuide = &command.Command{
	Usage: "parameters",
	Short: "about apportionment parameters",
	Long: `
The apportionment of a hypothesis matrix is controlled by a small set of
parameters, stored in a tab-delimited file with the following fields:

	- parameter  the name of the parameter
	- value      the value of the parameter

Here is an example file:

	# roulette apportionment parameters
	parameter	value
	chips	10000
	mode	integers
	zero	distribute
	normalized	false
	rows	false
	block	1000
	cpu	0
	seed	0

The parameters are:

- chips. The budget of chips. In integers mode it must be an integer.
- mode. Either "integers", to assign whole chips so the matrix sums exactly
  to the budget, or "reals", to assign the scaled weights.
- zero. What to do with a matrix (or a row) without weights. Either
  "distribute", to spread the budget uniformly over all the cells, or "skip",
  to keep it without chips (so the result does not sum to the budget).
- normalized. If true, the weights are taken as already normalized, and are
  only multiplied by the budget.
- rows. If true, each row receives its own budget of chips.
- block. The number of rows (dense containers) or stored values (sparse
  containers) read at each step of a chunked apportionment.
- cpu. The number of goroutines used to apportion rows. Zero uses all
  available CPUs.
- seed. The seed of the random number generator used to spread chips over
  matrices without weights. Zero uses a seed based on the current time.

Chips are assigned with the largest-remainder method: each cell receives the
floor of its share of the budget, and the remaining chips are given to the
cells with the largest remainders. Ties are resolved in favor of the cell that
comes first in row-major order. A sparse matrix only assigns chips to its
stored cells.

The recommended way to edit the parameters is by using the command
'roulette param'.
	`,
}
