package config

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/dealancer/validate.v2"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/motionposter/internal/analyzer"
	"github.com/ivlev/motionposter/internal/depth"
	"github.com/ivlev/motionposter/internal/effects"
)

var fs = afero.NewOsFs()

// Config holds every run parameter. Zero Workers means one per CPU, zero
// MaxWidth keeps the poster size and zero Quality picks the encoder default.
type Config struct {
	InputPath    string  `yaml:"input"`
	OutputVideo  string  `yaml:"output"`
	OutputRoot   string  `yaml:"output_root"`
	Effect       string  `yaml:"effect" validate:"one_of=parallax,zoom,sway,identity"`
	Duration     float64 `yaml:"duration" validate:"gt=0"`
	FPS          int     `yaml:"fps" validate:"gte=1"`
	Intensity    float64 `yaml:"intensity" validate:"gte=0"`
	Workers      int     `yaml:"workers" validate:"gte=0"`
	MaxWidth     int     `yaml:"max_width" validate:"gte=0"`
	Page         int     `yaml:"page" validate:"gte=0"`
	DPI          int     `yaml:"dpi" validate:"gte=1"`
	Model        string  `yaml:"model"`
	ModelDir     string  `yaml:"model_dir"`
	ModelPath    string  `yaml:"model_path"`
	ORTLibrary   string  `yaml:"ort_lib"`
	VideoEncoder string  `yaml:"encoder"`
	Quality      int     `yaml:"quality" validate:"gte=0"`
	SaveDepth    bool    `yaml:"save_depth"`
	ShowStats    bool    `yaml:"stats"`
	BuildVersion string  `yaml:"-"`
}

func Default() *Config {
	return &Config{
		OutputRoot: "output",
		Effect:     "parallax",
		Duration:   4,
		FPS:        24,
		Intensity:  1,
		MaxWidth:   1024,
		DPI:        150,
		Model:      depth.DefaultModel,
		ModelDir:   "models",
		SaveDepth:  true,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing configuration file error")
	}
	if err := cfg.RunValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0644)
}

// RunValidate checks the struct tags; validate.Validate then calls Validate
// for the checks tags cannot express.
func (c *Config) RunValidate() error {
	if err := validate.Validate(c); err != nil {
		return errors.Wrap(err, "unable to validate configuration")
	}
	return nil
}

// Validate is the custom validator hook. It must not call validate.Validate.
func (c *Config) Validate() error {
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return errors.Errorf("duration must be finite, got %v", c.Duration)
	}
	if math.IsNaN(c.Intensity) || math.IsInf(c.Intensity, 0) {
		return errors.Errorf("intensity must be finite, got %v", c.Intensity)
	}
	if _, err := effects.Parse(c.Effect); err != nil {
		return err
	}
	if c.Model == analyzer.Name {
		return nil
	}
	if _, err := depth.LookupModel(c.Model, c.ModelDir, c.ModelPath); err != nil {
		return err
	}
	return nil
}

// WorkerCount resolves Workers, defaulting to the CPU count.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

