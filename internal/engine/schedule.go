package engine

import (
	"math"

	"github.com/pkg/errors"
)

// Schedule spreads one full 2π cycle over Frames frames, so frame Frames
// would repeat frame 0 and the sequence loops.
type Schedule struct {
	Frames   int
	FPS      int
	Duration float64
}

// NewSchedule returns round(duration x fps) frames, failing when that is not
// at least one.
func NewSchedule(duration float64, fps int) (Schedule, error) {
	if fps <= 0 || !(duration > 0) || math.IsInf(duration, 0) {
		return Schedule{}, errors.Wrapf(ErrInvalidSchedule, "duration %gs @ %d fps", duration, fps)
	}
	n := int(math.Round(duration * float64(fps)))
	if n <= 0 {
		return Schedule{}, errors.Wrapf(ErrInvalidSchedule, "duration %gs @ %d fps gives no frames", duration, fps)
	}
	return Schedule{Frames: n, FPS: fps, Duration: duration}, nil
}

// Phase returns (i/N) x 2π.
func (s Schedule) Phase(i int) float64 {
	return float64(i) / float64(s.Frames) * 2 * math.Pi
}
