// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package store

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ManifestFile is the name of the file
// that describes a container stored on disk.
const ManifestFile = "container.tab"

// Names of the arrays of a container.
const (
	dataArray    = "data"
	indicesArray = "indices"
	indptrArray  = "indptr"
)

var manifestHeader = []string{
	"key",
	"value",
}

// readManifest reads the manifest of a container.
//
// The manifest is a TSV file with the fields:
//
//   - key, the name of a container property
//   - value, the value of the property
//
// Arrays are described with a value
// of the form <dtype>:<length>.
// Here is an example file:
//
//	# roulette matrix container
//	key	value
//	rows	100
//	cols	100
//	chunk	65536
//	data	float64:1000
//	indices	int32:1000
//	indptr	int32:101
//
// A container without indices and indptr
// is a dense container.
func readManifest(dir string) (Layout, error) {
	name := filepath.Join(dir, ManifestFile)
	f, err := os.Open(name)
	if err != nil {
		return Layout{}, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return Layout{}, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range manifestHeader {
		if _, ok := fields[h]; !ok {
			return Layout{}, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	var l Layout
	lens := make(map[string]int)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return Layout{}, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		key := strings.ToLower(row[fields["key"]])
		val := row[fields["value"]]
		switch key {
		case "rows", "cols", "chunk":
			v, err := strconv.Atoi(val)
			if err != nil {
				return Layout{}, fmt.Errorf("on file %q: on row %d, key %q: %v", name, ln, key, err)
			}
			switch key {
			case "rows":
				l.Rows = v
			case "cols":
				l.Cols = v
			case "chunk":
				l.Chunk = v
			}
		case dataArray, indicesArray, indptrArray:
			d, n, err := parseArray(val)
			if err != nil {
				return Layout{}, fmt.Errorf("on file %q: on row %d, key %q: %w", name, ln, key, err)
			}
			lens[key] = n
			if key == dataArray {
				l.Dtype = d
			}
		default:
			return Layout{}, fmt.Errorf("on file %q: on row %d: %w: unknown key %q", name, ln, ErrManifest, key)
		}
	}

	if _, ok := lens[dataArray]; !ok {
		return Layout{}, fmt.Errorf("on file %q: %w: undefined data array", name, ErrManifest)
	}
	_, hasInd := lens[indicesArray]
	_, hasPtr := lens[indptrArray]
	if hasInd != hasPtr {
		return Layout{}, fmt.Errorf("on file %q: %w: incomplete compressed-row arrays", name, ErrManifest)
	}
	l.Sparse = hasInd
	if l.Sparse {
		l.NNZ = lens[dataArray]
		if lens[indicesArray] != l.NNZ || lens[indptrArray] != l.Rows+1 {
			return Layout{}, fmt.Errorf("on file %q: %w: inconsistent array lengths", name, ErrManifest)
		}
	}

	l, err = l.validate()
	if err != nil {
		return Layout{}, fmt.Errorf("on file %q: %w", name, err)
	}
	if lens[dataArray] != l.dataLen() {
		return Layout{}, fmt.Errorf("on file %q: %w: data length %d, want %d", name, ErrManifest, lens[dataArray], l.dataLen())
	}
	return l, nil
}

func parseArray(val string) (Dtype, int, error) {
	dt, ln, ok := strings.Cut(val, ":")
	if !ok {
		return "", 0, fmt.Errorf("%w: array value %q", ErrManifest, val)
	}
	d, err := ParseDtype(dt)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(ln)
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("%w: array length %q", ErrManifest, ln)
	}
	return d, n, nil
}

func writeManifest(dir string, l Layout) (err error) {
	name := filepath.Join(dir, ManifestFile)
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

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# roulette matrix container\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(manifestHeader); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", name, err)
	}

	rows := [][]string{
		{"rows", strconv.Itoa(l.Rows)},
		{"cols", strconv.Itoa(l.Cols)},
		{"chunk", strconv.Itoa(l.Chunk)},
		{dataArray, fmt.Sprintf("%s:%d", l.Dtype, l.dataLen())},
	}
	if l.Sparse {
		rows = append(rows,
			[]string{indicesArray, fmt.Sprintf("%s:%d", Int32, l.NNZ)},
			[]string{indptrArray, fmt.Sprintf("%s:%d", Int32, l.Rows+1)},
		)
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", name, err)
	}
	return nil
}
