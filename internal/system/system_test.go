package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatestImage(t *testing.T) {
	dir := t.TempDir()
	files := []string{"old.png", "newest.webp", "mid.jpg", "skip.txt"}
	base := time.Now().Add(-time.Hour)
	for i, name := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		mod := base.Add(time.Duration(i) * time.Minute)
		if name == "newest.webp" {
			mod = base.Add(30 * time.Minute)
		}
		require.NoError(t, os.Chtimes(p, mod, mod))
	}

	latest, err := FindLatestImage(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "newest.webp"), latest)

	latest, err = FindLatestImage(filepath.Join(dir, "old.png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "newest.webp"), latest)

	_, err = FindLatestImage(t.TempDir())
	assert.Error(t, err)
}

func TestPickEncoder(t *testing.T) {
	assert.Equal(t, "h264_videotoolbox", pickEncoder(" V..... h264_videotoolbox  VideoToolbox H.264 Encoder"))
	assert.Equal(t, "h264_nvenc", pickEncoder(" V..... libx264\n V..... h264_nvenc NVIDIA"))
	assert.Equal(t, "libx264", pickEncoder(" V..... libx264 H.264"))
}

func TestDefaultQuality(t *testing.T) {
	assert.Equal(t, 75, DefaultQuality("h264_videotoolbox"))
	assert.Equal(t, 28, DefaultQuality("h264_nvenc"))
	assert.Equal(t, 23, DefaultQuality("libx264"))
	assert.Equal(t, 23, DefaultQuality("mpeg4"))
}

func TestBudget(t *testing.T) {
	// 100x100 RGBA = 40000 bytes; a quarter of 4 MB fits 25 frames
	assert.Equal(t, 25, budget(4_000_000, 100, 100, 1))
	assert.Equal(t, 8, budget(1000, 100, 100, 8))
	assert.Equal(t, 3, budget(1000, 0, 100, 3))
	assert.GreaterOrEqual(t, FrameBudget(64, 64, 4, 4), 4)
}

func TestImagePool(t *testing.T) {
	pool := NewImagePool()
	rect := image.Rect(0, 0, 7, 3)

	img := pool.Get(rect)
	require.NotNil(t, img)
	assert.Equal(t, rect, img.Bounds())
	pool.Put(img)

	again := pool.Get(rect)
	assert.Equal(t, rect, again.Bounds())

	other := pool.Get(image.Rect(0, 0, 2, 2))
	assert.Equal(t, image.Rect(0, 0, 2, 2), other.Bounds())

	pool.Put(nil)
	pool.Put(image.NewRGBA(image.Rect(0, 0, 99, 99)))
}
