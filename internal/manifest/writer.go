package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const FileName = "motion.yaml"

var fs = afero.NewOsFs()

// Write writes m as YAML to path.
func Write(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0644)
}

// Read reads a manifest from a YAML file
func Read(path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return &m, nil
}

// AppendBenchmark adds one line about the run to the log at path.
func AppendBenchmark(path string, m *Manifest, build string) error {
	fps := 0.0
	if m.Timings.Total > 0 {
		fps = float64(m.Frames) / m.Timings.Total
	}
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Effect: %s | Frames: %d | Total: %.2fs | Depth: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		build,
		filepath.Base(m.Input),
		m.Parameters.Effect,
		m.Frames,
		m.Timings.Total,
		m.Timings.Estimation,
		m.Timings.Synthesis,
		fps,
	)

	f, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(logEntry)
	return err
}
