package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/motionposter/internal/config"
	"github.com/ivlev/motionposter/internal/engine"
)

func TestOverride(t *testing.T) {
	base := config.Default()
	base.Effect = "zoom"
	base.FPS = 30

	flags := config.Default()
	flags.Effect = "sway"
	flags.FPS = 12
	flags.Intensity = 2

	override(base, flags, "effect")
	override(base, flags, "unknown")

	assert.Equal(t, "sway", base.Effect)
	assert.Equal(t, 30, base.FPS)
	assert.Equal(t, 1.0, base.Intensity)
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	poster := filepath.Join(dir, "poster.png")
	require.NoError(t, os.WriteFile(poster, []byte("x"), 0644))

	got, err := resolveInput(dir)
	require.NoError(t, err)
	assert.Equal(t, poster, got)

	got, err = resolveInput(poster)
	require.NoError(t, err)
	assert.Equal(t, poster, got)

	got, err = resolveInput("https://example.com/p.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/p.jpg", got)

	_, err = resolveInput(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	_, err = resolveInput(t.TempDir())
	assert.Error(t, err)
}

func TestNewEstimatorContrast(t *testing.T) {
	cfg := config.Default()
	cfg.Model = "contrast"

	est, closeEst, err := newEstimator(cfg)
	require.NoError(t, err)
	assert.NotNil(t, est)
	assert.NoError(t, closeEst())
}

func TestNewEstimatorMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	_, _, err := newEstimator(cfg)
	assert.Error(t, err)
}

func TestRunRejectsEmptyScheduleBeforeLoading(t *testing.T) {
	cfg := config.Default()
	cfg.Duration = 0.01
	cfg.FPS = 24
	// unreachable input: loading it would fail with a different error
	cfg.InputPath = "http://127.0.0.1:1/poster.jpg"
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	err := run(context.Background(), cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidSchedule)
	assert.Equal(t, "http://127.0.0.1:1/poster.jpg", cfg.InputPath)
}
