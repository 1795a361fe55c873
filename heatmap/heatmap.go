// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package heatmap implements an image
// of the values of a matrix,
// in which each cell is drawn as a square
// colored by its value.
package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/js-arias/blind"
	"github.com/js-arias/roulette/matrix"
)

// Empty is the color used for cells without value.
var Empty = color.RGBA{211, 211, 211, 255}

type Image struct {
	// Matrix to draw
	M matrix.Matrix

	// Size of the side of each cell, in pixels
	Size int

	// If log is true,
	// values are scaled with log(1+v).
	Log bool

	// A Gradient color scheme
	Gradient Gradienter

	rows, cols int
	max        float64
}

// Format prepares the image to be drawn.
func (i *Image) Format() {
	if i.Size < 1 {
		i.Size = 1
	}
	i.rows, i.cols = i.M.Dims()

	i.max = 0
	for r := 0; r < i.rows; r++ {
		for c := 0; c < i.cols; c++ {
			if v := i.M.At(r, c); v > i.max {
				i.max = v
			}
		}
	}
	if i.Log {
		i.max = math.Log1p(i.max)
	}

	if i.Gradient == nil {
		i.Gradient = RainbowPurpleToRed{}
	}
}

func (i *Image) ColorModel() color.Model { return color.RGBAModel }
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.cols*i.Size, i.rows*i.Size)
}
func (i *Image) At(x, y int) color.Color {
	r, c := y/i.Size, x/i.Size
	if x < 0 || y < 0 || r >= i.rows || c >= i.cols {
		return color.RGBA{}
	}

	v := i.M.At(r, c)
	if v == 0 || i.max == 0 {
		return Empty
	}
	if i.Log {
		v = math.Log1p(v)
	}
	return i.Gradient.Gradient(v / i.max)
}

// Gradienter is an interface for types
// that return a color gradient
type Gradienter interface {
	Gradient(v float64) color.Color
}

// Gradients returns the names of the available gradients.
func Gradients() []string {
	return []string{"gray", "lightgray", "incandescent", "iridescent", "rainbow"}
}

// ParseGradient returns a gradient from its name.
func ParseGradient(name string) (Gradienter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gray":
		return HalfGrayScale{}, nil
	case "lightgray":
		return LightGrayScale{}, nil
	case "incandescent":
		return Incandescent{}, nil
	case "iridescent":
		return Iridescent{}, nil
	case "rainbow", "":
		return RainbowPurpleToRed{}, nil
	}
	return nil, fmt.Errorf("unknown gradient %q", name)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// HalfGrayScale returns a gray scale
// between 0 (black)
// and 128 (gray).
type HalfGrayScale struct{}

func (h HalfGrayScale) Gradient(v float64) color.Color {
	c := 128 - uint8(clamp(v)*128)
	return color.RGBA{c, c, c, 255}
}

// LightGrayScale returns a gray scale
// between 0 (black)
// to 200 (light gray).
type LightGrayScale struct{}

func (l LightGrayScale) Gradient(v float64) color.Color {
	c := 200 - uint8(clamp(v)*200)
	return color.RGBA{c, c, c, 255}
}

// Incandescent is the incandescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_incandescent>.
type Incandescent struct{}

func (i Incandescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Incandescent, clamp(v))
}

// Iridescent is the iridescent color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_iridescent>.
type Iridescent struct{}

func (i Iridescent) Gradient(v float64) color.Color {
	return blind.Sequential(blind.Iridescent, clamp(v))
}

// RainbowPurpleToRed is the rainbow color scheme
// of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>
// starting at purple and ending at red.
type RainbowPurpleToRed struct{}

func (r RainbowPurpleToRed) Gradient(v float64) color.Color {
	return blind.Sequential(blind.RainbowPurpleToRed, clamp(v))
}
