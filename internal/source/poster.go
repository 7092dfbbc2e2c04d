package source

import (
	"context"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Open picks the Source implementation for input: http(s) URL, PDF, image
// file or directory of images.
func Open(ctx context.Context, input string) (Source, error) {
	switch {
	case IsURL(input):
		return Fetch(ctx, input)
	case IsPDF(input):
		return NewFitzPDFSource(input)
	default:
		return NewImageSource(input)
	}
}

// LoadPoster renders one page of src as an opaque RGBA image, downscaled to
// maxWidth when it is wider (0 disables scaling).
func LoadPoster(src Source, page, dpi, maxWidth int) (*image.RGBA, error) {
	if src.PageCount() == 0 {
		return nil, ErrNoPages
	}
	if page < 0 || page >= src.PageCount() {
		return nil, errors.Errorf("page %d out of range (have %d)", page, src.PageCount())
	}

	// Размер читается без декодирования: битые страницы отсекаем до рендера
	w, h, err := src.GetPageDimensions(page)
	if err != nil {
		return nil, errors.Wrapf(err, "page %d dimensions", page)
	}
	if w < 1 || h < 1 {
		return nil, errors.Errorf("page %d is empty (%gx%g)", page, w, h)
	}

	img, err := src.RenderPage(page, dpi)
	if err != nil {
		return nil, errors.Wrapf(err, "render page %d", page)
	}
	return ToRGBA(Downscale(img, maxWidth)), nil
}

// Downscale shrinks img to maxWidth preserving aspect ratio using Lanczos
// resampling. Images already narrow enough are returned unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := int(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx()))
	if h < 1 {
		h = 1
	}
	return resize.Resize(uint(maxWidth), uint(h), img, resize.Lanczos3)
}

// ToRGBA copies img into a fresh RGBA with origin (0,0), flattening any
// transparency onto black so every pixel is opaque.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
