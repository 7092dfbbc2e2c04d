package renderer

import "image"

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sampleBilinear writes the bilinear sample of src at (x, y) into out[0:4].
// x and y must already lie within the image.
func sampleBilinear(out []uint8, src *image.RGBA, x, y float64) {
	w, h := src.Rect.Dx(), src.Rect.Dy()

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	row0 := y0 * src.Stride
	row1 := y1 * src.Stride
	p00 := src.Pix[row0+4*x0 : row0+4*x0+4]
	p10 := src.Pix[row0+4*x1 : row0+4*x1+4]
	p01 := src.Pix[row1+4*x0 : row1+4*x0+4]
	p11 := src.Pix[row1+4*x1 : row1+4*x1+4]

	for c := 0; c < 4; c++ {
		top := lerp(float64(p00[c]), float64(p10[c]), fx)
		bottom := lerp(float64(p01[c]), float64(p11[c]), fx)
		out[c] = uint8(lerp(top, bottom, fy) + 0.5)
	}
}
