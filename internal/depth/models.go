package depth

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

var ErrUnknownModel = errors.New("unknown depth model")

// Model describes a MiDaS-family ONNX export and its preprocessing.
type Model struct {
	Key        string
	File       string
	InputName  string
	OutputName string
	InputSize  int
	Mean       [3]float32
	Std        [3]float32
}

var models = map[string]Model{
	// CPU-friendly
	"midas_small": {
		Key:        "midas_small",
		File:       "midas_v21_small_256.onnx",
		InputName:  "input",
		OutputName: "output",
		InputSize:  256,
		Mean:       [3]float32{0.485, 0.456, 0.406},
		Std:        [3]float32{0.229, 0.224, 0.225},
	},
	"dpt_hybrid": {
		Key:        "dpt_hybrid",
		File:       "dpt_hybrid_384.onnx",
		InputName:  "input",
		OutputName: "output",
		InputSize:  384,
		Mean:       [3]float32{0.5, 0.5, 0.5},
		Std:        [3]float32{0.5, 0.5, 0.5},
	},
	// highest quality, slowest on CPU
	"dpt_large": {
		Key:        "dpt_large",
		File:       "dpt_large_384.onnx",
		InputName:  "input",
		OutputName: "output",
		InputSize:  384,
		Mean:       [3]float32{0.5, 0.5, 0.5},
		Std:        [3]float32{0.5, 0.5, 0.5},
	},
}

const DefaultModel = "dpt_hybrid"

// LookupModel returns the registered model for key. If modelPath is set it
// replaces the default file location under dir.
func LookupModel(key, dir, modelPath string) (Model, error) {
	m, ok := models[key]
	if !ok {
		return Model{}, errors.Wrapf(ErrUnknownModel, "%q (want one of %v)", key, ModelKeys())
	}
	if modelPath != "" {
		m.File = modelPath
	} else if dir != "" {
		m.File = filepath.Join(dir, m.File)
	}
	return m, nil
}

func ModelKeys() []string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
