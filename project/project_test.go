// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/roulette/matrix"
	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/project"
	"github.com/js-arias/roulette/store"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Hypothesis, "hypothesis"},
		{project.Chips, "chips"},
		{project.Params, "params.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	dir := t.TempDir()
	name := filepath.Join(dir, "project.tab")

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	if r := np.Resolve(project.Chips); r != filepath.Join(dir, "chips") {
		t.Errorf("resolve: got %q, want %q", r, filepath.Join(dir, "chips"))
	}
	if prev := np.Add(project.Chips, ""); prev != "chips" {
		t.Errorf("add: got previous %q, want %q", prev, "chips")
	}
	if r := np.Resolve(project.Chips); r != "" {
		t.Errorf("resolve: got %q, want empty path", r)
	}
}

func TestProjectData(t *testing.T) {
	dir := t.TempDir()
	p := project.New()
	p.SetName(filepath.Join(dir, "project.tab"))
	p.Add(project.Hypothesis, "hypothesis")
	p.Add(project.Chips, "chips")

	if _, err := p.Hypothesis(); err == nil {
		t.Errorf("hypothesis: expecting error on undefined container")
	}

	m, err := matrix.FromTriplets(2, 2, []matrix.Triplet{{Row: 1, Col: 1, Value: 3}})
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	if err := store.Save(p.Resolve(project.Hypothesis), m, store.Float64); err != nil {
		t.Fatalf("unable to save matrix: %v", err)
	}
	c, err := p.Hypothesis()
	if err != nil {
		t.Fatalf("hypothesis: %v", err)
	}
	if !c.Sparse() || c.NNZ() != 1 {
		t.Errorf("hypothesis: got sparse %v with %d values", c.Sparse(), c.NNZ())
	}

	out, err := p.CreateChips(store.LayoutOf(m, store.Uint32))
	if err != nil {
		t.Fatalf("create chips: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("create chips: %v", err)
	}
	if _, err := p.Chips(); err != nil {
		t.Errorf("chips: %v", err)
	}

	pm, err := p.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if pm.Chips() != params.DefaultChips {
		t.Errorf("params: got %v chips, want %v", pm.Chips(), float64(params.DefaultChips))
	}
}

func TestChipsOverHypothesis(t *testing.T) {
	dir := t.TempDir()
	p := project.New()
	p.SetName(filepath.Join(dir, "project.tab"))
	p.Add(project.Hypothesis, "data")

	m, err := matrix.FromTriplets(3, 3, []matrix.Triplet{{Row: 0, Col: 2, Value: 1}})
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	if err := store.Save(p.Resolve(project.Hypothesis), m, store.Float64); err != nil {
		t.Fatalf("unable to save matrix: %v", err)
	}

	for _, path := range []string{"data", "./data", filepath.Join(dir, "data")} {
		p.Add(project.Chips, path)
		_, err := p.CreateChips(store.LayoutOf(m, store.Uint32))
		if !errors.Is(err, project.ErrSameContainer) {
			t.Errorf("chips %q: got error %v, want %v", path, err, project.ErrSameContainer)
		}
	}

	// the hypothesis is still readable
	c, err := p.Hypothesis()
	if err != nil {
		t.Fatalf("hypothesis: %v", err)
	}
	got, err := store.Load(c)
	if err != nil {
		t.Fatalf("hypothesis: %v", err)
	}
	if got.Sum() != 1 {
		t.Errorf("hypothesis: got sum %v, want %v", got.Sum(), 1.0)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown dataset": "dataset\tpath\ntrees\ttrees.tab\n",
		"repeated":        "dataset\tpath\nchips\ta\nCHIPS\tb\n",
	}

	dir := t.TempDir()
	for name, data := range tests {
		f := filepath.Join(dir, "project.tab")
		if err := os.WriteFile(f, []byte(data), 0o644); err != nil {
			t.Fatalf("%s: unable to write file: %v", name, err)
		}
		if _, err := project.Read(f); !errors.Is(err, project.ErrDataset) {
			t.Errorf("%s: got error %v, want %v", name, err, project.ErrDataset)
		}
	}

	f := filepath.Join(dir, "project.tab")
	if err := os.WriteFile(f, []byte("set\tpath\n"), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if _, err := project.Read(f); err == nil {
		t.Errorf("header: expecting error on missing column")
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}
