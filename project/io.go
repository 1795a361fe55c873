// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"

	"github.com/js-arias/roulette/params"
	"github.com/js-arias/roulette/store"
)

// Hypothesis opens the container of the hypothesis matrix
// as defined in a project.
func (p *Project) Hypothesis() (*store.Container, error) {
	return p.open(Hypothesis, "hypothesis matrix")
}

// Chips opens the container of the apportioned chips
// as defined in a project.
func (p *Project) Chips() (*store.Container, error) {
	return p.open(Chips, "chips")
}

// CreateChips creates the container of the apportioned chips
// as defined in a project,
// with the indicated layout.
// The chips can not be stored
// in the container of the hypothesis matrix.
func (p *Project) CreateChips(l store.Layout) (*store.Container, error) {
	dir := p.Resolve(Chips)
	if dir == "" {
		return nil, fmt.Errorf("chips not defined in project %q", p.name)
	}
	if p.sameContainer(Chips, Hypothesis) {
		return nil, fmt.Errorf("on container %q: %w", dir, ErrSameContainer)
	}
	c, err := store.Create(dir, l)
	if err != nil {
		return nil, fmt.Errorf("on container %q: %w", dir, err)
	}
	return c, nil
}

func (p *Project) open(set Dataset, desc string) (*store.Container, error) {
	dir := p.Resolve(set)
	if dir == "" {
		return nil, fmt.Errorf("%s not defined in project %q", desc, p.name)
	}
	c, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("on container %q: %w", dir, err)
	}
	return c, nil
}

// Params reads the apportionment parameters
// as defined in a project.
// If no parameters file is defined,
// it returns the default parameters.
func (p *Project) Params() (*params.P, error) {
	name := p.Resolve(Params)
	if name == "" {
		return params.New(""), nil
	}
	pm, err := params.Read(name)
	if err != nil {
		return nil, err
	}
	return pm, nil
}
