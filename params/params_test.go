// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package params_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/roulette/apportion"
	"github.com/js-arias/roulette/params"
)

func TestParams(t *testing.T) {
	name := filepath.Join(t.TempDir(), "params.tab")
	p := params.New(name)
	testParams(t, p, nil, name)

	if err := p.SetChips(10000); err != nil {
		t.Fatalf("set chips: %v", err)
	}
	if err := p.SetMode(apportion.Reals); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := p.SetZero(apportion.Skip); err != nil {
		t.Fatalf("set zero: %v", err)
	}
	if err := p.SetBlock(250); err != nil {
		t.Fatalf("set block: %v", err)
	}
	p.SetNormalized(true)
	p.SetRows(true)
	p.SetCPU(4)
	p.SetSeed(42)

	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := params.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testParams(t, np, p, name)

	cfg := np.Config()
	if cfg.Mode != apportion.Reals || cfg.Zero != apportion.Skip || !cfg.Normalized {
		t.Errorf("config: got %+v", cfg)
	}
	if cfg.Source == nil {
		t.Errorf("config: undefined random source")
	}
}

func TestInvalidParams(t *testing.T) {
	p := params.New("invalid")
	if err := p.SetChips(-1); !errors.Is(err, apportion.ErrInvalidBudget) {
		t.Errorf("chips: got error %v, want %v", err, apportion.ErrInvalidBudget)
	}
	if err := p.SetBlock(0); err == nil {
		t.Errorf("block: expecting error")
	}

	name := filepath.Join(t.TempDir(), "bad.tab")
	data := "parameter\tvalue\nmode\tfractions\n"
	if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if _, err := params.Read(name); !errors.Is(err, apportion.ErrInvalidMode) {
		t.Errorf("read: got error %v, want %v", err, apportion.ErrInvalidMode)
	}
}

func testParams(t testing.TB, p, want *params.P, name string) {
	t.Helper()

	if want == nil {
		want = params.New(name)
	}

	if p.Name() != want.Name() {
		t.Errorf("name: got %q, want %q", p.Name(), want.Name())
	}
	if p.Chips() != want.Chips() {
		t.Errorf("chips: got %v, want %v", p.Chips(), want.Chips())
	}
	if p.Mode() != want.Mode() {
		t.Errorf("mode: got %v, want %v", p.Mode(), want.Mode())
	}
	if p.Zero() != want.Zero() {
		t.Errorf("zero: got %v, want %v", p.Zero(), want.Zero())
	}
	if p.Normalized() != want.Normalized() {
		t.Errorf("normalized: got %v, want %v", p.Normalized(), want.Normalized())
	}
	if p.Rows() != want.Rows() {
		t.Errorf("rows: got %v, want %v", p.Rows(), want.Rows())
	}
	if p.Block() != want.Block() {
		t.Errorf("block: got %d, want %d", p.Block(), want.Block())
	}
	if p.CPU() != want.CPU() {
		t.Errorf("cpu: got %d, want %d", p.CPU(), want.CPU())
	}
	if p.Seed() != want.Seed() {
		t.Errorf("seed: got %d, want %d", p.Seed(), want.Seed())
	}
}
