package manifest

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemFs(t *testing.T) afero.Fs {
	mem := afero.NewMemMapFs()
	fs = mem
	t.Cleanup(func() { fs = afero.NewOsFs() })
	return mem
}

func TestWriteRead(t *testing.T) {
	useMemFs(t)

	m := New("posters/Big Show.png")
	m.Parameters = Parameters{Effect: "parallax", Duration: 4, FPS: 24, Intensity: 1, Model: "dpt_hybrid"}
	m.Frames = 96
	m.Width, m.Height = 640, 960
	m.Depth = DepthStats{Min: 0.1, Max: 7.5}
	m.Encoder = "ffmpeg/libx264"
	m.Outputs = Outputs{Video: "out/motion.mp4", DepthMap: "out/depth_map.png"}

	path := "out/run/" + FileName
	require.NoError(t, Write(m, path))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = uuid.Parse(got.RunID)
	assert.NoError(t, err)
}

func TestReadMissing(t *testing.T) {
	useMemFs(t)
	_, err := Read("nope.yaml")
	assert.Error(t, err)
}

func TestRunIDsDiffer(t *testing.T) {
	assert.NotEqual(t, New("a").RunID, New("a").RunID)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"posters/Big Show.png", "big-show"},
		{"/tmp/__Night__Film!!.JPG", "night-film"},
		{"https://example.com/a/poster.jpg", "url"},
		{"http://example.com", "url"},
		{"posters/.png", "poster"},
		{"", "poster"},
		{"movie_2024 final.webp", "movie-2024-final"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.input))
		})
	}
}

func TestOutputDir(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 5, 1, 0, time.UTC)
	assert.Equal(t, "output/20260307-090501-big-show", OutputDir("output", "Big Show.png", now))
}

func TestAppendBenchmark(t *testing.T) {
	mem := useMemFs(t)

	m := New("poster.png")
	m.Parameters.Effect = "zoom"
	m.Frames = 10
	m.Timings = Timings{Estimation: 1, Synthesis: 1, Total: 2}

	require.NoError(t, AppendBenchmark("benchmark.log", m, "dev"))
	require.NoError(t, AppendBenchmark("benchmark.log", m, "dev"))

	data, err := afero.ReadFile(mem, "benchmark.log")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Input: poster.png | Effect: zoom | Frames: 10")
	assert.Contains(t, lines[0], "FPS: 5.00")
}
