package effects

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Effect selects the displacement law used for every frame of a run.
type Effect int

const (
	Identity Effect = iota
	Parallax
	Zoom
	Sway
)

// Fixed motion constants. Only the intensity multiplier scales them.
const (
	parallaxAmplitudeX = 20.0
	parallaxAmplitudeY = 10.0
	parallaxFrequencyY = 0.5
	swayAmplitudeX     = 15.0
	zoomAmplitude      = 0.1
)

var ErrUnknownEffect = errors.New("unknown effect")

// Names lists the effects accepted on the command line.
var Names = []string{"parallax", "zoom", "sway"}

func Parse(name string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "parallax":
		return Parallax, nil
	case "zoom":
		return Zoom, nil
	case "sway":
		return Sway, nil
	case "identity", "none":
		return Identity, nil
	default:
		return Identity, errors.Wrapf(ErrUnknownEffect, "%q (want one of %s)", name, strings.Join(Names, ", "))
	}
}

func (e Effect) String() string {
	switch e {
	case Parallax:
		return "parallax"
	case Zoom:
		return "zoom"
	case Sway:
		return "sway"
	case Identity:
		return "identity"
	}
	return "unknown"
}

// Kind tells the renderer which warp a Motion needs.
type Kind int

const (
	KindNone   Kind = iota // frame equals the source
	KindField              // per-pixel offset scaled by depth
	KindScalar             // global zoom factor
)

// Motion holds the parameters for one frame. OffsetX/OffsetY are pixel
// displacements at depth 1.0; Zoom is only meaningful for KindScalar.
type Motion struct {
	Kind    Kind
	OffsetX float64
	OffsetY float64
	Zoom    float64
}

// Motion computes the frame parameters for phase (radians) at the given
// intensity. Intensity is not clamped.
func (e Effect) Motion(phase, intensity float64) Motion {
	switch e {
	case Parallax:
		return Motion{
			Kind:    KindField,
			OffsetX: math.Sin(phase) * parallaxAmplitudeX * intensity,
			OffsetY: math.Cos(phase*parallaxFrequencyY) * parallaxAmplitudeY * intensity,
			Zoom:    1.0,
		}
	case Sway:
		return Motion{
			Kind:    KindField,
			OffsetX: math.Sin(phase) * swayAmplitudeX * intensity,
			Zoom:    1.0,
		}
	case Zoom:
		return Motion{
			Kind: KindScalar,
			Zoom: 1.0 + math.Sin(phase)*zoomAmplitude*intensity,
		}
	case Identity:
		return Motion{Kind: KindNone, Zoom: 1.0}
	}
	return Motion{Kind: KindNone, Zoom: 1.0}
}
