// Package manifest records what a run produced in a motion.yaml next to the
// video, and lays out per-run output directories.
package manifest

import (
	"time"

	"github.com/google/uuid"
)

const Version = "1"

// Manifest describes one generated loop.
type Manifest struct {
	Version    string     `yaml:"version"`
	RunID      string     `yaml:"run_id"`
	CreatedAt  time.Time  `yaml:"created_at"`
	Input      string     `yaml:"input"`
	Parameters Parameters `yaml:"parameters"`
	Frames     int        `yaml:"frames"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Depth      DepthStats `yaml:"depth"`
	Encoder    string     `yaml:"encoder"`
	Outputs    Outputs    `yaml:"outputs"`
	Timings    Timings    `yaml:"timings"`
}

type Parameters struct {
	Effect    string  `yaml:"effect"`
	Duration  float64 `yaml:"duration"`
	FPS       int     `yaml:"fps"`
	Intensity float64 `yaml:"intensity"`
	Model     string  `yaml:"model"`
}

// DepthStats are the raw estimate bounds before normalization.
type DepthStats struct {
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Degenerate bool    `yaml:"degenerate"`
}

type Outputs struct {
	Video    string `yaml:"video"`
	DepthMap string `yaml:"depth_map,omitempty"`
	Config   string `yaml:"config,omitempty"`
}

// Timings in seconds.
type Timings struct {
	Estimation float64 `yaml:"estimation"`
	Synthesis  float64 `yaml:"synthesis"`
	Total      float64 `yaml:"total"`
}

func New(input string) *Manifest {
	return &Manifest{
		Version:   Version,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Input:     input,
	}
}
