// Package analyzer estimates depth without a model: strongly textured
// regions and the lower part of the frame are treated as nearer. It is a
// rough stand-in for posters when no ONNX runtime is available.
package analyzer

import (
	"context"
	"image"
	"math"

	"github.com/ivlev/motionposter/internal/depth"
)

// ContrastEstimator scores depth from Sobel gradient energy spread by a max
// filter, blended with a bottom-is-near vertical prior.
type ContrastEstimator struct {
	KernelSize int     // max filter width in pixels
	Iterations int     // max filter passes
	EdgeWeight float64 // share of edge energy vs the vertical prior, 0..1
}

// NewContrastEstimator creates a new contrast-based estimator with default settings
func NewContrastEstimator() *ContrastEstimator {
	return &ContrastEstimator{
		KernelSize: 5,
		Iterations: 2,
		EdgeWeight: 0.5,
	}
}

func (e *ContrastEstimator) Estimate(ctx context.Context, img *image.RGBA) (*depth.Map, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil, depth.ErrShape
	}

	// Step 1: luma
	gray := luma(img)

	// Step 2: gradient magnitude
	edges := sobel(gray, w, h)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: spread edges so whole objects, not outlines, come forward
	spread := dilate(edges, w, h, e.KernelSize, e.Iterations)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peak := float32(0)
	for _, v := range spread {
		if v > peak {
			peak = v
		}
	}

	m := depth.NewMap(w, h)
	ew := float32(e.EdgeWeight)
	for y := 0; y < h; y++ {
		prior := float32(0)
		if h > 1 {
			prior = float32(y) / float32(h-1)
		}
		for x := 0; x < w; x++ {
			edge := float32(0)
			if peak > 0 {
				edge = spread[y*w+x] / peak
			}
			m.Data[y*w+x] = ew*edge + (1-ew)*prior
		}
	}
	return m, nil
}

// luma returns Rec. 601 luminance per pixel in [0,255].
func luma(img *image.RGBA) []float32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
		for x := 0; x < w; x++ {
			p := row[4*x : 4*x+3]
			out[y*w+x] = 0.299*float32(p[0]) + 0.587*float32(p[1]) + 0.114*float32(p[2])
		}
	}
	return out
}

// sobel returns the gradient magnitude; the one-pixel border stays zero.
func sobel(gray []float32, w, h int) []float32 {
	out := make([]float32, w*h)

	// Sobel kernels
	gx := [3][3]float32{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]float32{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sumX, sumY float32
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := gray[(y+ky)*w+x+kx]
					sumX += pixel * gx[ky+1][kx+1]
					sumY += pixel * gy[ky+1][kx+1]
				}
			}
			out[y*w+x] = float32(math.Sqrt(float64(sumX*sumX + sumY*sumY)))
		}
	}
	return out
}

// dilate applies a kernelSize x kernelSize max filter, clamping at the edges.
func dilate(src []float32, w, h, kernelSize, iterations int) []float32 {
	half := kernelSize / 2
	result := append([]float32(nil), src...)

	for iter := 0; iter < iterations; iter++ {
		temp := make([]float32, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				maxVal := float32(0)
				for ky := -half; ky <= half; ky++ {
					yy := y + ky
					if yy < 0 || yy >= h {
						continue
					}
					for kx := -half; kx <= half; kx++ {
						xx := x + kx
						if xx < 0 || xx >= w {
							continue
						}
						if v := result[yy*w+xx]; v > maxVal {
							maxVal = v
						}
					}
				}
				temp[y*w+x] = maxVal
			}
		}
		result = temp
	}
	return result
}
