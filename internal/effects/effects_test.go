package effects

import (
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/pkg/errors"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    Effect
		wantErr bool
	}{
		{"parallax", Parallax, false},
		{"Zoom", Zoom, false},
		{" sway ", Sway, false},
		{"identity", Identity, false},
		{"dolly", Identity, true},
		{"", Identity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := Parse(tt.name)
			if tt.wantErr {
				is.True(errors.Is(err, ErrUnknownEffect))
				return
			}
			is.NoErr(err)
			is.Equal(got, tt.want)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, e := range []Effect{Identity, Parallax, Zoom, Sway} {
		got, err := Parse(e.String())
		is.NoErr(err)
		is.Equal(got, e)
	}
}

func TestParallaxLaw(t *testing.T) {
	is := is.New(t)

	m := Parallax.Motion(math.Pi/2, 1.0)
	is.Equal(m.Kind, KindField)
	is.True(near(m.OffsetX, 20))
	is.True(near(m.OffsetY, math.Cos(math.Pi/4)*10))

	m = Parallax.Motion(0, 2.0)
	is.True(near(m.OffsetX, 0))
	is.True(near(m.OffsetY, 20))
}

func TestSwayIsHorizontal(t *testing.T) {
	is := is.New(t)
	for _, phase := range []float64{0, 0.3, math.Pi / 2, math.Pi, 4.5} {
		m := Sway.Motion(phase, 1.5)
		is.Equal(m.Kind, KindField)
		is.Equal(m.OffsetY, 0.0)
		is.True(near(m.OffsetX, math.Sin(phase)*15*1.5))
	}
}

func TestZoomOscillatesAroundOne(t *testing.T) {
	is := is.New(t)

	is.Equal(Zoom.Motion(0, 1).Zoom, 1.0)
	is.True(near(Zoom.Motion(math.Pi/2, 1).Zoom, 1.1))
	is.True(near(Zoom.Motion(3*math.Pi/2, 1).Zoom, 0.9))
	is.Equal(Zoom.Motion(math.Pi/2, 1).Kind, KindScalar)
}

func TestZeroIntensityFreezesMotion(t *testing.T) {
	is := is.New(t)
	for _, e := range []Effect{Parallax, Sway, Zoom} {
		for _, phase := range []float64{0.1, 1, 2, 3, 5} {
			m := e.Motion(phase, 0)
			is.Equal(m.OffsetX, 0.0)
			is.Equal(m.OffsetY, 0.0)
			is.Equal(m.Zoom, 1.0)
		}
	}
}

func TestIntensityIsNotClamped(t *testing.T) {
	is := is.New(t)
	m := Sway.Motion(math.Pi/2, 10)
	is.True(near(m.OffsetX, 150))
}

func TestIdentityIsNoop(t *testing.T) {
	is := is.New(t)
	for _, phase := range []float64{0, 1, math.Pi, 6} {
		is.Equal(Identity.Motion(phase, 3), Motion{Kind: KindNone, Zoom: 1.0})
	}
}

// The loop closes when phase 2π reproduces phase 0.
func TestMotionIsPeriodic(t *testing.T) {
	is := is.New(t)
	for _, e := range []Effect{Sway, Zoom, Identity} {
		a := e.Motion(0, 1.3)
		b := e.Motion(2*math.Pi, 1.3)
		is.True(near(a.OffsetX, b.OffsetX))
		is.True(near(a.OffsetY, b.OffsetY))
		is.True(near(a.Zoom, b.Zoom))
	}

	// Parallax's horizontal component shares the loop period; the vertical
	// one runs at half rate.
	a := Parallax.Motion(0, 1)
	b := Parallax.Motion(2*math.Pi, 1)
	is.True(near(a.OffsetX, b.OffsetX))
	is.True(near(a.OffsetY, -b.OffsetY))
}
