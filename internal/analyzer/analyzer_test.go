package analyzer

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/motionposter/internal/depth"
)

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestUniformImageFollowsVerticalPrior(t *testing.T) {
	m, err := NewContrastEstimator().Estimate(context.Background(), fill(10, 5, color.RGBA{90, 90, 90, 255}))
	require.NoError(t, err)
	require.Equal(t, 10, m.Width)
	require.Equal(t, 5, m.Height)

	for y := 0; y < 5; y++ {
		want := 0.5 * float32(y) / 4
		for x := 0; x < 10; x++ {
			assert.InDelta(t, want, m.At(x, y), 1e-6)
		}
	}
}

func TestTexturedRegionComesForward(t *testing.T) {
	// White square on black background
	img := fill(200, 200, color.RGBA{0, 0, 0, 255})
	for y := 50; y < 150; y++ {
		for x := 50; x < 150; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	m, err := NewContrastEstimator().Estimate(context.Background(), img)
	require.NoError(t, err)

	// same row: the square's edge is nearer than the empty margin
	assert.Greater(t, m.At(50, 100), m.At(5, 100))
	assert.Greater(t, maxOf(m), float32(0.5))

	field, err := depth.Normalize(m)
	require.NoError(t, err)
	assert.False(t, field.Degenerate)
}

func TestSingleRow(t *testing.T) {
	m, err := NewContrastEstimator().Estimate(context.Background(), fill(4, 1, color.RGBA{1, 2, 3, 255}))
	require.NoError(t, err)
	for _, v := range m.Data {
		assert.Equal(t, float32(0), v)
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewContrastEstimator().Estimate(ctx, fill(8, 8, color.RGBA{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyImage(t *testing.T) {
	_, err := NewContrastEstimator().Estimate(context.Background(), image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, depth.ErrShape)
}

func TestNewEstimator(t *testing.T) {
	est, err := NewEstimator(Name)
	require.NoError(t, err)
	assert.NotNil(t, est)

	_, err = NewEstimator("ocr")
	assert.Error(t, err)
}

func TestDilate(t *testing.T) {
	src := make([]float32, 25)
	src[12] = 3 // center of 5x5
	out := dilate(src, 5, 5, 3, 1)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := float32(0)
			if x >= 1 && x <= 3 && y >= 1 && y <= 3 {
				want = 3
			}
			assert.Equal(t, want, out[y*5+x], "(%d,%d)", x, y)
		}
	}
}

func maxOf(m *depth.Map) float32 {
	peak := float32(0)
	for _, v := range m.Data {
		if v > peak {
			peak = v
		}
	}
	return peak
}
