// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package matrix

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var tsvHeader = []string{
	"row",
	"col",
	"weight",
}

// ReadTSV reads a sparse matrix from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - row, the row index of the cell (starting at 0)
//   - col, the column index of the cell (starting at 0)
//   - weight, the value of the cell
//
// Here is an example file:
//
//	# hypothesis matrix
//	row	col	weight
//	0	0	0.4
//	0	1	0.6
//	2	4	0.4
//
// If rows or cols are zero,
// the dimension is set from the largest index
// found in the file.
func ReadTSV(r io.Reader, rows, cols int) (*Sparse, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range tsvHeader {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	var cells []Triplet
	var maxRow, maxCol int
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "row"
		i, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		if i < 0 {
			return nil, fmt.Errorf("on row %d: field %q: invalid index %d", ln, f, i)
		}

		f = "col"
		j, err := strconv.Atoi(row[fields[f]])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		if j < 0 {
			return nil, fmt.Errorf("on row %d: field %q: invalid index %d", ln, f, j)
		}

		f = "weight"
		w, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		if err := checkWeight(w); err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %w", ln, f, err)
		}

		cells = append(cells, Triplet{Row: i, Col: j, Value: w})
		maxRow = max(maxRow, i+1)
		maxCol = max(maxCol, j+1)
	}

	if rows <= 0 {
		rows = maxRow
	}
	if cols <= 0 {
		cols = maxCol
	}
	return FromTriplets(rows, cols, cells)
}

// TSV writes the cells of a matrix
// that are different from zero
// into a TSV file.
func TSV(w io.Writer, m Matrix) error {
	bw := bufio.NewWriter(w)
	r, c := m.Dims()
	fmt.Fprintf(bw, "# hypothesis matrix: %d rows, %d cols\n", r, c)

	tab := csv.NewWriter(bw)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(tsvHeader); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	write := func(i, j int, v float64) error {
		if v == 0 {
			return nil
		}
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(j),
			strconv.FormatFloat(v, 'g', -1, 64),
		}
		return tab.Write(row)
	}

	switch x := m.(type) {
	case *Dense:
		for i := 0; i < r; i++ {
			for j, v := range x.RawRow(i) {
				if err := write(i, j, v); err != nil {
					return fmt.Errorf("unable to write data: %v", err)
				}
			}
		}
	case *Sparse:
		for i := 0; i < r; i++ {
			for k := x.indptr[i]; k < x.indptr[i+1]; k++ {
				if err := write(i, int(x.indices[k]), x.data[k]); err != nil {
					return fmt.Errorf("unable to write data: %v", err)
				}
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("unable to write data: %v", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to write data: %v", err)
	}
	return nil
}
