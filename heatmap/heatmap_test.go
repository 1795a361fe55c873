// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package heatmap_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/js-arias/roulette/heatmap"
	"github.com/js-arias/roulette/matrix"
	"github.com/stretchr/testify/require"
)

func TestImage(t *testing.T) {
	m, err := matrix.NewDense(2, 3, []float64{
		0, 1, 2,
		4, 0, 0,
	})
	require.NoError(t, err)

	img := &heatmap.Image{
		M:        m,
		Size:     5,
		Gradient: heatmap.HalfGrayScale{},
	}
	img.Format()
	require.Equal(t, image.Rect(0, 0, 15, 10), img.Bounds())

	require.Equal(t, heatmap.Empty, img.At(0, 0))
	require.Equal(t, heatmap.Empty, img.At(14, 9))
	// largest value is black
	require.Equal(t, color.RGBA{0, 0, 0, 255}, img.At(0, 5))
	require.Equal(t, color.RGBA{0, 0, 0, 255}, img.At(4, 9))
	// half of the largest value
	require.Equal(t, color.RGBA{64, 64, 64, 255}, img.At(12, 2))
	// outside the image
	require.Equal(t, color.RGBA{}, img.At(15, 0))
}

func TestGradients(t *testing.T) {
	for _, name := range heatmap.Gradients() {
		g, err := heatmap.ParseGradient(name)
		require.NoError(t, err, name)
		require.NotNil(t, g.Gradient(0.5))
		require.Equal(t, g.Gradient(1), g.Gradient(2), name)
	}

	_, err := heatmap.ParseGradient("sepia")
	require.Error(t, err)
}
