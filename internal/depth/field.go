// Package depth holds per-pixel depth maps, their normalization into
// motion-ready fields, and the estimators that produce them.
package depth

import (
	"math"

	"github.com/pkg/errors"
)

var ErrShape = errors.New("depth map shape does not match its data")

// Map is a row-major grid of raw depth samples in an arbitrary range.
type Map struct {
	Width  int
	Height int
	Data   []float32
}

func NewMap(width, height int) *Map {
	return &Map{Width: width, Height: height, Data: make([]float32, width*height)}
}

func (m *Map) At(x, y int) float32 {
	return m.Data[y*m.Width+x]
}

func (m *Map) Set(x, y int, v float32) {
	m.Data[y*m.Width+x] = v
}

func (m *Map) validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 || len(m.Data) != m.Width*m.Height {
		return ErrShape
	}
	return nil
}

// Range returns the finite minimum and maximum of the map. ok is false when
// the map holds no finite samples.
func (m *Map) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range m.Data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi, lo <= hi
}

// Field is a normalized depth map: values in [0,1], 1 = nearest. A degenerate
// field (no dynamic range in the raw estimate) is all zeros.
type Field struct {
	Map
	Degenerate bool
	RawMin     float64
	RawMax     float64
}

// Normalize rescales raw to [0,1] so that its minimum maps to exactly 0 and its
// maximum to exactly 1. Uniform input yields the zero field with Degenerate
// set. Non-finite samples map to 0.
func Normalize(raw *Map) (*Field, error) {
	if err := raw.validate(); err != nil {
		return nil, err
	}

	f := &Field{Map: *NewMap(raw.Width, raw.Height)}
	lo, hi, ok := raw.Range()
	if ok {
		f.RawMin, f.RawMax = lo, hi
	}
	if !ok || hi == lo {
		f.Degenerate = true
		return f, nil
	}

	span := hi - lo
	for i, v := range raw.Data {
		x := float64(v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		f.Data[i] = float32((x - lo) / span)
	}
	return f, nil
}

// Flat returns a zero field of the given size, equivalent to a degenerate
// estimate.
func Flat(width, height int) *Field {
	return &Field{Map: *NewMap(width, height), Degenerate: true}
}
