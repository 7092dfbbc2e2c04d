package depth

import (
	"context"
	"image"
)

// Estimator produces a raw depth map for an image. Implementations should
// return a map at the image's resolution; values may be in any range.
type Estimator interface {
	Estimate(ctx context.Context, img *image.RGBA) (*Map, error)
}

// EstimatorFunc adapts a function to the Estimator interface.
type EstimatorFunc func(ctx context.Context, img *image.RGBA) (*Map, error)

func (f EstimatorFunc) Estimate(ctx context.Context, img *image.RGBA) (*Map, error) {
	return f(ctx, img)
}
