package analyzer

import (
	"github.com/pkg/errors"

	"github.com/ivlev/motionposter/internal/depth"
)

// Name selects the contrast heuristic instead of an ONNX model.
const Name = "contrast"

// NewEstimator creates an estimator based on the specified variant
func NewEstimator(variant string) (depth.Estimator, error) {
	switch variant {
	case Name, "":
		return NewContrastEstimator(), nil
	default:
		return nil, errors.Errorf("unknown estimator variant: %s", variant)
	}
}
