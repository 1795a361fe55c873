// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package apportion

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/js-arias/roulette/matrix"
	"golang.org/x/exp/rand"
)

// Rows apportions a budget of chips
// independently on each row of a matrix,
// so each row sums to the budget.
//
// Unless the configuration says the matrix is normalized,
// each row is divided by its own mass before apportionment.
// Rows without mass follow the zero policy,
// so with Skip the total of the matrix
// is reduced by the budget of each empty row.
//
// Rows are apportioned in parallel,
// using the number of goroutines defined by cfg.CPU.
// The result is the same regardless of the number of goroutines.
//
// After a row fails no more rows are dispatched,
// but rows already dispatched are completed,
// so the returned error is the one
// of the failing row with the lowest index.
func Rows(m matrix.Matrix, budget float64, cfg Config) (matrix.Matrix, error) {
	if err := cfg.validate(budget); err != nil {
		return nil, err
	}
	if !cfg.Normalized {
		m = matrix.NormalizeRows(m)
	}

	r, _ := m.Dims()
	rows := make([]matrix.Matrix, r)
	seeds := make([]uint64, r)
	rnd := rand.New(cfg.source())
	for i := range rows {
		rows[i] = matrix.RowOf(m, i)
		if rows[i].NNZ() == 0 {
			seeds[i] = rnd.Uint64()
		}
	}

	rc := cfg
	rc.Normalized = true
	rc.Mass = 0

	cpu := min(cfg.cpu(), r)
	rowChan := make(chan rowChanType, cpu*2)
	for i := 0; i < cpu; i++ {
		go runRow(rowChan)
	}

	var wg sync.WaitGroup
	var failed atomic.Bool
	out := make([]matrix.Matrix, r)
	errs := make([]error, r)
	for i, row := range rows {
		if failed.Load() {
			break
		}
		wg.Add(1)
		rowChan <- rowChanType{
			row:    i,
			m:      row,
			budget: budget,
			cfg:    rc,
			seed:   seeds[i],
			out:    out,
			errs:   errs,
			failed: &failed,
			wg:     &wg,
		}
	}
	wg.Wait()
	close(rowChan)

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return matrix.VStack(out...)
}

type rowChanType struct {
	row    int
	m      matrix.Matrix
	budget float64
	cfg    Config
	seed   uint64

	out    []matrix.Matrix
	errs   []error
	failed *atomic.Bool

	wg *sync.WaitGroup
}

func runRow(c chan rowChanType) {
	for job := range c {
		cfg := job.cfg
		cfg.Source = rand.NewSource(job.seed)
		a, err := apportion(job.m, job.budget, cfg)
		if err != nil {
			job.errs[job.row] = err
			job.failed.Store(true)
		}
		job.out[job.row] = a
		job.wg.Done()
	}
}
