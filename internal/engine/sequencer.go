package engine

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/motionposter/internal/depth"
	"github.com/ivlev/motionposter/internal/effects"
	"github.com/ivlev/motionposter/internal/log"
	"github.com/ivlev/motionposter/internal/renderer"
	"github.com/ivlev/motionposter/internal/system"
)

const progressEvery = 30

// Sequencer maps frame indices to frames. Each frame depends only on its
// index, so frames render in parallel and are handed out in index order.
type Sequencer struct {
	Source    *image.RGBA
	Field     *depth.Field
	Effect    effects.Effect
	Intensity float64
	Schedule  Schedule
	Workers   int
	// Window is how many frames may be rendered ahead of the one being
	// emitted. Zero derives it from free memory.
	Window int
}

// Frame renders frame i into dst.
func (s *Sequencer) Frame(dst *image.RGBA, i int) error {
	m := s.Effect.Motion(s.Schedule.Phase(i), s.Intensity)
	return renderer.Render(dst, s.Source, s.Field, m)
}

func (s *Sequencer) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return 1
}

func (s *Sequencer) window() int {
	workers := s.workers()
	if s.Window > 0 {
		return s.Window
	}
	w, h := s.Source.Rect.Dx(), s.Source.Rect.Dy()
	window := system.FrameBudget(w, h, workers, workers)
	if window > 4*workers {
		window = 4 * workers
	}
	return window
}

// Run renders all frames and calls emit for each in index order. The frame
// passed to emit is recycled after emit returns. Rendering stops at the
// first error or when ctx is cancelled; frames not yet emitted are dropped.
func (s *Sequencer) Run(ctx context.Context, emit func(i int, frame *image.RGBA) error) error {
	if s.Schedule.Frames <= 0 {
		return ErrInvalidSchedule
	}
	if s.Source == nil {
		return ErrDimensionMismatch
	}

	total := s.Schedule.Frames
	window := s.window()
	rect := s.Source.Rect
	frames := make([]*image.RGBA, 0, window)

	release := func() {
		for _, f := range frames {
			system.PutImage(f)
		}
		frames = frames[:0]
	}
	defer release()

	for start := 0; start < total; start += window {
		end := start + window
		if end > total {
			end = total
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers())
		for i := start; i < end; i++ {
			if gctx.Err() != nil {
				break
			}
			frame := system.GetImage(rect)
			frames = append(frames, frame)
			i := i
			g.Go(func() error {
				return s.Frame(frame, i)
			})
		}
		if err := g.Wait(); err != nil {
			return stageErr(StageSynthesis, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for k, frame := range frames {
			i := start + k
			if frame.Rect != rect {
				return stageErr(StageSynthesis, ErrDimensionMismatch)
			}
			if err := emit(i, frame); err != nil {
				return stageErr(StageEncoding, err)
			}
			if (i+1)%progressEvery == 0 || i+1 == total {
				log.Info("[>] Ready: %d/%d", i+1, total)
			}
		}
		release()
	}
	return nil
}

// Generate renders the whole sequence into memory.
func (s *Sequencer) Generate(ctx context.Context) ([]*image.RGBA, error) {
	out := make([]*image.RGBA, 0, s.Schedule.Frames)
	err := s.Run(ctx, func(i int, frame *image.RGBA) error {
		clone := image.NewRGBA(frame.Rect)
		copy(clone.Pix, frame.Pix)
		out = append(out, clone)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
