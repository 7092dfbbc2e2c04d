// Package renderer turns a source image, its depth field and one frame's
// motion parameters into an output frame of the same size.
package renderer

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/ivlev/motionposter/internal/depth"
	"github.com/ivlev/motionposter/internal/effects"
)

var ErrDimensionMismatch = errors.New("frame dimensions do not match source")

// Render draws the frame described by m into dst. dst, src and field must
// share the same size and src must have its origin at (0,0).
func Render(dst, src *image.RGBA, field *depth.Field, m effects.Motion) error {
	if err := checkSize(dst, src); err != nil {
		return err
	}

	switch m.Kind {
	case effects.KindField:
		return WarpField(dst, src, field, m.OffsetX, m.OffsetY)
	case effects.KindScalar:
		return WarpZoom(dst, src, m.Zoom)
	case effects.KindNone:
		copyImage(dst, src)
		return nil
	}
	return errors.Errorf("unsupported motion kind %d", m.Kind)
}

// WarpField samples src at (x + d*offX, y + d*offY) for every output pixel,
// where d is the field value at (x, y). Coordinates are clamped to the image
// so edges replicate instead of wrapping.
func WarpField(dst, src *image.RGBA, field *depth.Field, offX, offY float64) error {
	if err := checkSize(dst, src); err != nil {
		return err
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if field == nil || field.Width != w || field.Height != h {
		return errors.Wrap(ErrDimensionMismatch, "depth field")
	}

	maxX, maxY := float64(w-1), float64(h-1)
	for y := 0; y < h; y++ {
		row := y * dst.Stride
		for x := 0; x < w; x++ {
			d := float64(field.Data[y*w+x])
			sx := clamp(float64(x)+d*offX, 0, maxX)
			sy := clamp(float64(y)+d*offY, 0, maxY)
			o := row + 4*x
			sampleBilinear(dst.Pix[o:o+4], src, sx, sy)
		}
	}
	return nil
}

// ZoomGeometry returns the resized dimensions for zoom and, when zooming in,
// the top-left corner of the centered crop.
func ZoomGeometry(w, h int, zoom float64) (nw, nh int, origin image.Point) {
	nw = int(float64(w) * zoom)
	nh = int(float64(h) * zoom)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	if nw >= w && nh >= h {
		origin = image.Pt((nw-w)/2, (nh-h)/2)
	}
	return nw, nh, origin
}

// WarpZoom scales src by zoom about its center. Zooming in crops the center
// back to size; zooming out pads with replicated edge pixels and rescales to
// the exact source size.
func WarpZoom(dst, src *image.RGBA, zoom float64) error {
	if err := checkSize(dst, src); err != nil {
		return err
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()

	nw, nh, origin := ZoomGeometry(w, h, zoom)
	if nw == w && nh == h {
		copyImage(dst, src)
		return nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	if zoom > 1.0 {
		draw.Draw(dst, dst.Bounds(), scaled, origin, draw.Src)
		return nil
	}

	padded := padReplicate(scaled, (w-nw)/2, (h-nh)/2)
	if padded.Rect.Dx() == w && padded.Rect.Dy() == h {
		copyImage(dst, padded)
		return nil
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), padded, padded.Bounds(), draw.Src, nil)
	return nil
}

// padReplicate grows img by padX columns on each side and padY rows on top and
// bottom, repeating the nearest edge pixel.
func padReplicate(img *image.RGBA, padX, padY int) *image.RGBA {
	if padX < 0 {
		padX = 0
	}
	if padY < 0 {
		padY = 0
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w+2*padX, h+2*padY))
	for y := 0; y < out.Rect.Dy(); y++ {
		sy := clampInt(y-padY, 0, h-1)
		for x := 0; x < out.Rect.Dx(); x++ {
			sx := clampInt(x-padX, 0, w-1)
			s := sy*img.Stride + 4*sx
			d := y*out.Stride + 4*x
			copy(out.Pix[d:d+4], img.Pix[s:s+4])
		}
	}
	return out
}

func copyImage(dst, src *image.RGBA) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*w], src.Pix[y*src.Stride:y*src.Stride+4*w])
	}
}

func checkSize(dst, src *image.RGBA) error {
	if src == nil || dst == nil {
		return errors.Wrap(ErrDimensionMismatch, "nil image")
	}
	if src.Rect.Min != (image.Point{}) || dst.Rect.Min != (image.Point{}) {
		return errors.Wrap(ErrDimensionMismatch, "image origin must be (0,0)")
	}
	if dst.Rect.Size() != src.Rect.Size() {
		return errors.Wrapf(ErrDimensionMismatch, "dst %v, src %v", dst.Rect.Size(), src.Rect.Size())
	}
	return nil
}
