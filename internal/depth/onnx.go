//go:build cgo
// +build cgo

package depth

import (
	"context"
	"image"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEstimator runs a MiDaS-style ONNX model through onnxruntime. The model
// emits relative inverse depth, so larger values are nearer.
type ONNXEstimator struct {
	model Model
}

// NewONNXEstimator initialises the onnxruntime environment. libPath may be
// empty, in which case ONNXRUNTIME_SHARED_LIBRARY_PATH is consulted.
func NewONNXEstimator(model Model, libPath string) (*ONNXEstimator, error) {
	if model.InputSize <= 0 {
		return nil, errors.Errorf("invalid model input size %d", model.InputSize)
	}
	if _, err := os.Stat(model.File); err != nil {
		return nil, errors.Wrapf(err, "model %s", model.Key)
	}

	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	} else if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "onnxruntime init")
		}
	}
	return &ONNXEstimator{model: model}, nil
}

func (e *ONNXEstimator) Estimate(ctx context.Context, img *image.RGBA) (*Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := e.model.InputSize
	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(size), int64(size)), e.tensorData(img))
	if err != nil {
		return nil, errors.Wrap(err, "input tensor")
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(size), int64(size)))
	if err != nil {
		return nil, errors.Wrap(err, "output tensor")
	}
	defer output.Destroy()

	session, err := ort.NewAdvancedSession(
		e.model.File,
		[]string{e.model.InputName},
		[]string{e.model.OutputName},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "session")
	}
	defer session.Destroy()

	if err := session.Run(); err != nil {
		return nil, errors.Wrap(err, "inference")
	}

	raw := NewMap(size, size)
	copy(raw.Data, output.GetData())

	b := img.Bounds()
	return Resample(raw, b.Dx(), b.Dy())
}

// tensorData resizes img to the model's square input and lays it out as
// normalized NCHW float32.
func (e *ONNXEstimator) tensorData(img *image.RGBA) []float32 {
	size := e.model.InputSize
	scaled := resize.Resize(uint(size), uint(size), img, resize.Bicubic)
	b := scaled.Bounds()

	n := size * size
	data := make([]float32, 3*n)
	mean, std := e.model.Mean, e.model.Std
	idx := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := scaled.At(b.Min.X+x, b.Min.Y+y).RGBA()
			data[idx] = (float32(r>>8)/255.0 - mean[0]) / std[0]
			data[n+idx] = (float32(g>>8)/255.0 - mean[1]) / std[1]
			data[2*n+idx] = (float32(bl>>8)/255.0 - mean[2]) / std[2]
			idx++
		}
	}
	return data
}

// Close tears down the onnxruntime environment.
func (e *ONNXEstimator) Close() error {
	if ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}
