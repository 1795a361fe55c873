// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements roulette projects.
//
// A project is a small tab-delimited file (TSV)
// that tells the roulette commands
// where the hypothesis matrix,
// the apportioned chips,
// and the apportionment parameters
// are stored.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Dataset identifies an element of a project.
type Dataset string

// Project datasets.
const (
	// Chips is the container directory
	// of the apportioned chips.
	Chips Dataset = "chips"

	// Hypothesis is the container directory
	// of the hypothesis matrix.
	Hypothesis Dataset = "hypothesis"

	// Params is the parameters file.
	Params Dataset = "params"
)

var datasets = []Dataset{Chips, Hypothesis, Params}

// Errors returned by projects.
var (
	// ErrDataset is returned for an unknown
	// or repeated dataset in a project file.
	ErrDataset = errors.New("project: invalid dataset")

	// ErrSameContainer is returned when the chips
	// would overwrite the hypothesis matrix.
	ErrSameContainer = errors.New("project: chips and hypothesis share a container")
)

// A Project is a set of dataset paths.
// Paths are kept as written in the project file,
// and are resolved from the directory
// of that file.
type Project struct {
	name  string
	paths map[Dataset]string
}

// New returns a project without datasets.
func New() *Project {
	return &Project{paths: make(map[Dataset]string)}
}

var header = []string{"dataset", "path"}

// Read reads a project file.
//
// The file has two columns:
// dataset, with the name of the project element
// (chips, hypothesis, or params),
// and path,
// with the location of the element,
// relative to the project file.
// Dataset names are case insensitive.
// For example:
//
//	# roulette project files
//	dataset	path
//	hypothesis	hypothesis
//	chips	chips
//	params	params.tab
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("project file %q: %w", name, err)
	}
	p.name = name
	return p, nil
}

func read(r io.Reader) (*Project, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	col := make(map[string]int, len(head))
	for i, h := range head {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range header {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("header: missing column %q", h)
		}
	}

	p := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", ln, err)
		}

		set := Dataset(strings.ToLower(strings.TrimSpace(row[col["dataset"]])))
		if !slices.Contains(datasets, set) {
			return nil, fmt.Errorf("line %d: %w %q", ln, ErrDataset, set)
		}
		if _, dup := p.paths[set]; dup {
			return nil, fmt.Errorf("line %d: %w: %q defined twice", ln, ErrDataset, set)
		}
		if path := strings.TrimSpace(row[col["path"]]); path != "" {
			p.paths[set] = path
		}
	}
}

// Add sets the path of a dataset,
// and returns the path it replaces.
// An empty path removes the dataset.
func (p *Project) Add(set Dataset, path string) string {
	prev := p.paths[set]
	if path == "" {
		delete(p.paths, set)
	} else {
		p.paths[set] = path
	}
	return prev
}

// Path returns the path of a dataset,
// as written in the project file.
func (p *Project) Path(set Dataset) string {
	return p.paths[set]
}

// Resolve returns the path of a dataset
// usable from the working directory.
func (p *Project) Resolve(set Dataset) string {
	path := p.paths[set]
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(p.name), path)
}

// Sets returns the defined datasets,
// sorted by name.
func (p *Project) Sets() []Dataset {
	sets := make([]Dataset, 0, len(p.paths))
	for s := range p.paths {
		sets = append(sets, s)
	}
	slices.Sort(sets)
	return sets
}

// Name returns the name of the project file.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the name of the project file.
func (p *Project) SetName(name string) {
	p.name = name
}

// Write saves the project
// in the file set by SetName
// (or the file it was read from).
func (p *Project) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := p.write(f); err != nil {
		return fmt.Errorf("project file %q: %v", p.name, err)
	}
	return nil
}

func (p *Project) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# roulette project files\n")
	fmt.Fprintf(bw, "# saved on: %s\n", time.Now().Format(time.RFC3339))

	tab := csv.NewWriter(bw)
	tab.Comma = '\t'
	tab.UseCRLF = true
	tab.Write(header)
	for _, s := range p.Sets() {
		tab.Write([]string{string(s), p.paths[s]})
	}
	tab.Flush()
	if err := tab.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// sameContainer returns true if two datasets
// resolve to the same location.
func (p *Project) sameContainer(a, b Dataset) bool {
	pa, pb := p.Resolve(a), p.Resolve(b)
	if pa == "" || pb == "" {
		return false
	}
	absA, errA := filepath.Abs(pa)
	absB, errB := filepath.Abs(pb)
	if errA != nil || errB != nil {
		return filepath.Clean(pa) == filepath.Clean(pb)
	}
	return absA == absB
}
