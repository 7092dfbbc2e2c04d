package depth

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// magma control points, dark (far) to bright (near).
var magma = []color.RGBA{
	{0, 0, 4, 255},
	{28, 16, 68, 255},
	{79, 18, 123, 255},
	{129, 37, 129, 255},
	{181, 54, 122, 255},
	{229, 80, 100, 255},
	{251, 135, 97, 255},
	{254, 194, 135, 255},
	{252, 253, 191, 255},
}

// Colorize renders the field as an RGBA image using a magma-like ramp.
func Colorize(f *Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Data {
		c := ramp(float64(v))
		o := 4 * i
		img.Pix[o+0] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

func ramp(v float64) color.RGBA {
	if math.IsNaN(v) || v <= 0 {
		return magma[0]
	}
	if v >= 1 {
		return magma[len(magma)-1]
	}
	pos := v * float64(len(magma)-1)
	i := int(pos)
	t := pos - float64(i)
	a, b := magma[i], magma[i+1]
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p) + (float64(q)-float64(p))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// WritePNG encodes the colorized field as PNG.
func WritePNG(w io.Writer, f *Field) error {
	return png.Encode(w, Colorize(f))
}
