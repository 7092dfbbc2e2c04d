//go:build gocv

package video

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CVEncoder writes mp4v through OpenCV. Lower compatibility than H.264 but
// needs no ffmpeg binary.
type CVEncoder struct{}

func newCVEncoder() (VideoEncoder, error) { return CVEncoder{}, nil }

func (CVEncoder) String() string { return "opencv/mp4v" }

func (CVEncoder) Open(ctx context.Context, path string, spec Spec) (FrameWriter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	writer, err := gocv.VideoWriterFile(path, "mp4v", float64(spec.FPS), spec.Width, spec.Height, true)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open video writer")
	}
	return &cvWriter{w: writer, rect: image.Rect(0, 0, spec.Width, spec.Height)}, nil
}

type cvWriter struct {
	w    *gocv.VideoWriter
	rect image.Rectangle
}

func (c *cvWriter) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Size() != c.rect.Size() {
		return errors.Wrapf(ErrFrameSize, "got %v, want %v", img.Bounds().Size(), c.rect.Size())
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrap(err, "unable to convert frame")
	}
	defer mat.Close()
	return c.w.Write(mat)
}

func (c *cvWriter) Close() error {
	return c.w.Close()
}
