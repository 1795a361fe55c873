// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package store

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
)

// CompressionLevel is the gzip level
// used for chunk files.
const CompressionLevel = 5

// Create creates a new container on disk,
// at the indicated directory.
// The directory is created if it does not exist.
// Any previous container at the directory
// is overwritten.
//
// Values not yet written read as zeros.
// When the container is closed,
// the chunks never written are saved as zeros,
// so every chunk file is present.
func Create(dir string, l Layout) (*Container, error) {
	l, err := l.validate()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := removeChunks(dir); err != nil {
		return nil, err
	}
	if err := writeManifest(dir, l); err != nil {
		return nil, err
	}
	return openLayout(dir, l, true), nil
}

// Open opens a container stored on disk.
// It is an error if a chunk file of the container
// is missing.
func Open(dir string) (*Container, error) {
	l, err := readManifest(dir)
	if err != nil {
		return nil, err
	}
	c := openLayout(dir, l, false)
	for _, a := range c.arrays() {
		if err := a.(*fileArray).checkChunks(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func openLayout(dir string, l Layout, created bool) *Container {
	c := &Container{
		layout: l,
		dir:    dir,
		data:   newFileArray(dir, dataArray, l.Dtype, l.dataLen(), l.Chunk, created),
	}
	if l.Sparse {
		c.indices = newFileArray(dir, indicesArray, Int32, l.NNZ, l.Chunk, created)
		c.indptr = newFileArray(dir, indptrArray, Int32, l.Rows+1, l.Chunk, created)
	}
	return c
}

func removeChunks(dir string) error {
	for _, a := range []string{dataArray, indicesArray, indptrArray} {
		files, err := filepath.Glob(filepath.Join(dir, a+"-*.gz"))
		if err != nil {
			return err
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// A fileArray is an array stored on disk
// as a set of gzip compressed chunk files.
// A single chunk is kept in memory,
// and written back when a different chunk is accessed,
// or the array is flushed.
//
// In an array of a created container
// a missing chunk is a chunk not yet written.
// In an opened container it is an error.
type fileArray struct {
	dir     string
	name    string
	dtype   Dtype
	n       int
	chunk   int
	created bool

	cur   int
	buf   []float64
	dirty bool
}

func newFileArray(dir, name string, d Dtype, n, chunk int, created bool) *fileArray {
	return &fileArray{
		dir:     dir,
		name:    name,
		dtype:   d,
		n:       n,
		chunk:   chunk,
		created: created,
		cur:     -1,
	}
}

func (a *fileArray) Len() int     { return a.n }
func (a *fileArray) Dtype() Dtype { return a.dtype }

func (a *fileArray) Read(dst []float64, off int) error {
	if err := checkBounds(a, len(dst), off); err != nil {
		return err
	}
	for len(dst) > 0 {
		ci := off / a.chunk
		if err := a.load(ci); err != nil {
			return err
		}
		k := copy(dst, a.buf[off-ci*a.chunk:])
		dst = dst[k:]
		off += k
	}
	return nil
}

func (a *fileArray) Write(src []float64, off int) error {
	if err := checkBounds(a, len(src), off); err != nil {
		return err
	}
	for i, v := range src {
		if _, err := a.dtype.Convert(v); err != nil {
			return fmt.Errorf("%s: element %d: %w", a.name, off+i, err)
		}
	}
	for len(src) > 0 {
		ci := off / a.chunk
		if err := a.load(ci); err != nil {
			return err
		}
		dst := a.buf[off-ci*a.chunk:]
		k := min(len(dst), len(src))
		for i, v := range src[:k] {
			dst[i], _ = a.dtype.Convert(v)
		}
		a.dirty = true
		src = src[k:]
		off += k
	}
	return nil
}

func (a *fileArray) Flush() error {
	if !a.dirty {
		return nil
	}
	if err := a.save(); err != nil {
		return err
	}
	a.dirty = false
	return nil
}

func (a *fileArray) chunkPath(ci int) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s-%d.gz", a.name, ci))
}

func (a *fileArray) chunkLen(ci int) int {
	return min(a.chunk, a.n-ci*a.chunk)
}

func (a *fileArray) numChunks() int {
	return (a.n + a.chunk - 1) / a.chunk
}

// CheckChunks returns an error
// if a chunk file is missing.
func (a *fileArray) checkChunks() error {
	for ci := 0; ci < a.numChunks(); ci++ {
		name := a.chunkPath(ci)
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %q", ErrChunk, name)
			}
			return err
		}
	}
	return nil
}

// Complete saves as zeros
// the chunks of a created array
// that were never written.
func (a *fileArray) complete() error {
	if !a.created {
		return nil
	}
	if err := a.Flush(); err != nil {
		return err
	}
	for ci := 0; ci < a.numChunks(); ci++ {
		name := a.chunkPath(ci)
		_, err := os.Stat(name)
		if err == nil {
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := a.writeChunk(ci, make([]float64, a.chunkLen(ci))); err != nil {
			return err
		}
	}
	return nil
}

// Load loads a chunk into the buffer.
// In a created array,
// chunks without a file are filled with zeros.
func (a *fileArray) load(ci int) error {
	if ci == a.cur {
		return nil
	}
	if err := a.Flush(); err != nil {
		return err
	}

	size := a.chunkLen(ci)
	if cap(a.buf) < size {
		a.buf = make([]float64, size)
	}
	a.buf = a.buf[:size]
	clear(a.buf)
	a.cur = ci

	name := a.chunkPath(ci)
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) && a.created {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		a.cur = -1
		return fmt.Errorf("%w: %q", ErrChunk, name)
	}
	if err != nil {
		a.cur = -1
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		a.cur = -1
		return fmt.Errorf("on file %q: %v", name, err)
	}
	raw := make([]byte, size*a.dtype.Size())
	if _, err := io.ReadFull(zr, raw); err != nil {
		a.cur = -1
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := zr.Close(); err != nil {
		a.cur = -1
		return fmt.Errorf("on file %q: %v", name, err)
	}
	decode(a.dtype, raw, a.buf)
	return nil
}

// Save writes the current chunk.
func (a *fileArray) save() error {
	return a.writeChunk(a.cur, a.buf)
}

func (a *fileArray) writeChunk(ci int, vals []float64) (err error) {
	name := a.chunkPath(ci)
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
	zw, err := gzip.NewWriterLevel(bw, CompressionLevel)
	if err != nil {
		return err
	}
	if _, err := zw.Write(encode(a.dtype, vals)); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func encode(d Dtype, vals []float64) []byte {
	size := d.Size()
	raw := make([]byte, len(vals)*size)
	for i, v := range vals {
		b := raw[i*size:]
		switch d {
		case Float64:
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		case Float32:
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
		case Uint16:
			binary.LittleEndian.PutUint16(b, uint16(v))
		case Uint32:
			binary.LittleEndian.PutUint32(b, uint32(v))
		case Int32:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		}
	}
	return raw
}

func decode(d Dtype, raw []byte, vals []float64) {
	size := d.Size()
	for i := range vals {
		b := raw[i*size:]
		switch d {
		case Float64:
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		case Float32:
			vals[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		case Uint16:
			vals[i] = float64(binary.LittleEndian.Uint16(b))
		case Uint32:
			vals[i] = float64(binary.LittleEndian.Uint32(b))
		case Int32:
			vals[i] = float64(int32(binary.LittleEndian.Uint32(b)))
		}
	}
}
