package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ivlev/motionposter/internal/source"
)

// FindLatestImage ищет самое свежее изображение в директории (или в директории файла).
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	files, err := os.ReadDir(searchDir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if source.IsImageFile(f.Name()) {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latestFile = filepath.Join(searchDir, f.Name())
			}
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no images found in %s", searchDir)
	}

	return latestFile, nil
}

// HasFFmpeg reports whether an ffmpeg binary is on PATH.
func HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(listing string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(listing, name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality returns the encoder-specific quality knob used when none is set.
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75 // битрейт = Q*100 кбит/с
	case "h264_nvenc":
		return 28 // эквивалент CRF для NVENC
	default:
		return 23 // стандартный CRF для x264
	}
}

// Describe returns a one-line summary of the host for the run banner.
func Describe() string {
	cores, err := cpu.Counts(true)
	if err != nil || cores == 0 {
		cores = runtime.NumCPU()
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Sprintf("%d CPU", cores)
	}
	return fmt.Sprintf("%d CPU | RAM %.1f/%.1f GiB free", cores,
		float64(vm.Available)/(1<<30), float64(vm.Total)/(1<<30))
}

// memoryShare is the fraction of available RAM frame buffers may occupy.
const memoryShare = 0.25

// FrameBudget returns how many width x height RGBA frames may be held in
// memory at once, never less than minFrames. If memory cannot be queried the
// result is fallback.
func FrameBudget(width, height, minFrames, fallback int) int {
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Available == 0 {
		return fallback
	}
	return budget(vm.Available, width, height, minFrames)
}

func budget(available uint64, width, height, minFrames int) int {
	frameBytes := uint64(width) * uint64(height) * 4
	if frameBytes == 0 {
		return minFrames
	}
	n := int(float64(available) * memoryShare / float64(frameBytes))
	if n < minFrames {
		return minFrames
	}
	return n
}
