package engine

import (
	"github.com/pkg/errors"

	"github.com/ivlev/motionposter/internal/renderer"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule: no frames to render")

	// ErrDimensionMismatch is returned when a produced frame differs in size
	// from the source.
	ErrDimensionMismatch = renderer.ErrDimensionMismatch
)

const (
	StageLoading    = "loading"
	StageEstimation = "estimation"
	StageSynthesis  = "synthesis"
	StageEncoding   = "encoding"
)

// StageError tags an upstream failure with the pipeline stage it came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
