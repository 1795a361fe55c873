// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package store implements containers
// for matrices too large to be kept in memory.
//
// A container holds up to three logical arrays:
// data, with the values of the matrix,
// and, in sparse containers,
// indices and indptr,
// with the compressed-row layout of the matrix.
// In a dense container,
// data holds every cell in row-major order.
//
// Arrays are accessed by ranges,
// so a matrix can be read or written
// in blocks.
// Containers are not safe for concurrent use.
package store

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by containers.
var (
	// ErrDtype is returned for an unknown data type.
	ErrDtype = errors.New("store: unknown data type")

	// ErrRange is returned when a value
	// can not be represented by the data type of an array.
	ErrRange = errors.New("store: value out of range for data type")

	// ErrBounds is returned when a range
	// is outside an array.
	ErrBounds = errors.New("store: range out of bounds")

	// ErrLayout is returned when a container
	// does not have the expected layout.
	ErrLayout = errors.New("store: invalid container layout")

	// ErrManifest is returned when a container manifest
	// is invalid.
	ErrManifest = errors.New("store: invalid manifest")

	// ErrChunk is returned when a chunk file
	// of a container is missing.
	ErrChunk = errors.New("store: missing chunk file")
)

// Dtype is the data type
// used to store the values of an array.
type Dtype string

// Valid data types.
const (
	Float64 Dtype = "float64"
	Float32 Dtype = "float32"
	Uint16  Dtype = "uint16"
	Uint32  Dtype = "uint32"
	Int32   Dtype = "int32"
)

// ParseDtype returns the data type of a string.
func ParseDtype(s string) (Dtype, error) {
	switch d := Dtype(s); d {
	case Float64, Float32, Uint16, Uint32, Int32:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrDtype, s)
}

// Size returns the size in bytes of a value.
func (d Dtype) Size() int {
	switch d {
	case Float64:
		return 8
	case Float32, Uint32, Int32:
		return 4
	case Uint16:
		return 2
	}
	return 0
}

// Integer returns true if the data type
// only holds integers.
func (d Dtype) Integer() bool {
	switch d {
	case Uint16, Uint32, Int32:
		return true
	}
	return false
}

// Convert returns a value
// as it will be stored in the data type.
func (d Dtype) Convert(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v as %s", ErrRange, v, d)
	}

	var lo, hi float64
	switch d {
	case Float64:
		return v, nil
	case Float32:
		f := float32(v)
		if math.IsInf(float64(f), 0) {
			return 0, fmt.Errorf("%w: %v as %s", ErrRange, v, d)
		}
		return float64(f), nil
	case Uint16:
		lo, hi = 0, math.MaxUint16
	case Uint32:
		lo, hi = 0, math.MaxUint32
	case Int32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return 0, fmt.Errorf("%w: %q", ErrDtype, string(d))
	}
	if v != math.Trunc(v) || v < lo || v > hi {
		return 0, fmt.Errorf("%w: %v as %s", ErrRange, v, d)
	}
	return v, nil
}

// Array is a logical array of a container.
// Values are always exchanged as float64,
// regardless of the data type used to store them.
type Array interface {
	// Len returns the number of elements.
	Len() int

	// Dtype returns the data type of the elements.
	Dtype() Dtype

	// Read reads len(dst) elements
	// starting at off.
	Read(dst []float64, off int) error

	// Write writes the elements of src
	// starting at off.
	Write(src []float64, off int) error

	// Flush saves any pending write.
	Flush() error
}

func checkBounds(a Array, n, off int) error {
	if off < 0 || n < 0 || off+n > a.Len() {
		return fmt.Errorf("%w: [%d, %d) on array of length %d", ErrBounds, off, off+n, a.Len())
	}
	return nil
}

// Layout defines the shape of a container.
type Layout struct {
	Rows, Cols int

	// Sparse is true for containers
	// in compressed-row layout.
	Sparse bool

	// NNZ is the number of stored values
	// of a sparse container.
	NNZ int

	// Dtype is the data type of the data array.
	// If empty, Float64 is used.
	Dtype Dtype

	// Chunk is the number of elements
	// of each chunk file,
	// in a container stored on disk.
	// If zero, DefaultChunk is used.
	Chunk int
}

// DefaultChunk is the default number of elements
// in a chunk file.
const DefaultChunk = 1 << 16

func (l Layout) validate() (Layout, error) {
	if l.Rows <= 0 || l.Cols <= 0 {
		return l, fmt.Errorf("%w: shape %d x %d", ErrLayout, l.Rows, l.Cols)
	}
	if l.Sparse && (l.NNZ < 0 || l.Rows >= math.MaxInt32 || l.NNZ > math.MaxInt32) {
		return l, fmt.Errorf("%w: %d stored values", ErrLayout, l.NNZ)
	}
	if l.Dtype == "" {
		l.Dtype = Float64
	}
	if _, err := ParseDtype(string(l.Dtype)); err != nil {
		return l, err
	}
	if l.Chunk <= 0 {
		l.Chunk = DefaultChunk
	}
	return l, nil
}

func (l Layout) dataLen() int {
	if l.Sparse {
		return l.NNZ
	}
	return l.Rows * l.Cols
}

// Container is a matrix stored as logical arrays.
type Container struct {
	layout Layout
	dir    string

	data    Array
	indices Array
	indptr  Array
}

// NewMem returns a new container
// with its arrays stored in memory.
func NewMem(l Layout) (*Container, error) {
	l, err := l.validate()
	if err != nil {
		return nil, err
	}

	c := &Container{
		layout: l,
		data:   newMemArray(l.Dtype, l.dataLen()),
	}
	if l.Sparse {
		c.indices = newMemArray(Int32, l.NNZ)
		c.indptr = newMemArray(Int32, l.Rows+1)
	}
	return c, nil
}

// Layout returns the layout of the container.
func (c *Container) Layout() Layout {
	return c.layout
}

// Dir returns the directory of a container
// stored on disk.
// It is empty for containers in memory.
func (c *Container) Dir() string {
	return c.dir
}

// Dims returns the number of rows and columns
// of the stored matrix.
func (c *Container) Dims() (r, cols int) {
	return c.layout.Rows, c.layout.Cols
}

// Sparse returns true if the container
// is in compressed-row layout.
func (c *Container) Sparse() bool {
	return c.layout.Sparse
}

// NNZ returns the number of elements
// of the data array.
func (c *Container) NNZ() int {
	return c.layout.dataLen()
}

// Data returns the data array.
func (c *Container) Data() Array {
	return c.data
}

// Indices returns the column indices array
// of a sparse container.
// It is nil on a dense container.
func (c *Container) Indices() Array {
	return c.indices
}

// Indptr returns the row offsets array
// of a sparse container.
// It is nil on a dense container.
func (c *Container) Indptr() Array {
	return c.indptr
}

func (c *Container) arrays() []Array {
	if c.layout.Sparse {
		return []Array{c.data, c.indices, c.indptr}
	}
	return []Array{c.data}
}

// Flush saves any pending write.
func (c *Container) Flush() error {
	for _, a := range c.arrays() {
		if err := a.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the container.
// In a new container stored on disk,
// values never written are saved as zeros.
// The container should not be used after closed.
func (c *Container) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	for _, a := range c.arrays() {
		fa, ok := a.(*fileArray)
		if !ok {
			continue
		}
		if err := fa.complete(); err != nil {
			return err
		}
	}
	return nil
}
