package source

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ImageSource serves one or more raster images. Pages are either file paths
// or an in-memory blob (for downloaded posters).
type ImageSource struct {
	paths []string
	blob  []byte
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsImageFile(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

// NewBlobSource wraps already-fetched encoded image bytes.
func NewBlobSource(data []byte) *ImageSource {
	return &ImageSource{blob: data}
}

func (s *ImageSource) PageCount() int {
	if s.blob != nil {
		return 1
	}
	return len(s.paths)
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	data, err := s.page(index)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	data, err := s.page(index)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

func (s *ImageSource) page(index int) ([]byte, error) {
	if index < 0 || index >= s.PageCount() {
		return nil, errors.Errorf("page %d out of range (have %d)", index, s.PageCount())
	}
	if s.blob != nil {
		return s.blob, nil
	}
	return os.ReadFile(s.paths[index])
}

func (s *ImageSource) Close() error {
	return nil
}
