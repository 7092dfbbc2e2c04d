package manifest

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const stampLayout = "20060102-150405"

// OutputDir returns <root>/<stamp>-<slug> for input.
func OutputDir(root, input string, now time.Time) string {
	return filepath.Join(root, now.Format(stampLayout)+"-"+Slug(input))
}

// Slug derives a directory-safe name from an input path. URLs map to "url"
// and inputs without a usable stem to "poster".
func Slug(input string) string {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return "url"
	}

	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(stem) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "poster"
	}
	return slug
}
