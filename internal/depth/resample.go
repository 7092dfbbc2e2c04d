package depth

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Resample scales m to width x height with bicubic interpolation. Samples are
// quantised to 16 bits across the map's own range, which keeps ordering and
// the endpoints intact for normalization.
func Resample(m *Map, width, height int) (*Map, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if m.Width == width && m.Height == height {
		out := NewMap(width, height)
		copy(out.Data, m.Data)
		return out, nil
	}

	lo, hi, ok := m.Range()
	if !ok || hi == lo {
		out := NewMap(width, height)
		if ok {
			for i := range out.Data {
				out.Data[i] = float32(lo)
			}
		}
		return out, nil
	}
	span := hi - lo

	gray := image.NewGray16(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Data {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			x = lo
		}
		q := uint16(math.Round((x - lo) / span * math.MaxUint16))
		gray.Pix[2*i] = uint8(q >> 8)
		gray.Pix[2*i+1] = uint8(q)
	}

	scaled := resize.Resize(uint(width), uint(height), gray, resize.Bicubic)

	out := NewMap(width, height)
	b := scaled.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := scaled.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Data[y*width+x] = float32(lo + float64(r)/math.MaxUint16*span)
		}
	}
	return out, nil
}
