//go:build !cgo
// +build !cgo

package depth

import (
	"context"
	"image"

	"github.com/pkg/errors"
)

// ErrCGORequired is returned when ONNX inference is attempted without CGO support.
var ErrCGORequired = errors.New("depth estimation requires CGO support; rebuild with CGO_ENABLED=1")

type ONNXEstimator struct{}

func NewONNXEstimator(model Model, libPath string) (*ONNXEstimator, error) {
	return nil, ErrCGORequired
}

func (e *ONNXEstimator) Estimate(ctx context.Context, img *image.RGBA) (*Map, error) {
	return nil, ErrCGORequired
}

func (e *ONNXEstimator) Close() error {
	return nil
}
