package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// maxDownloadBytes caps poster downloads.
const maxDownloadBytes = 64 << 20

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetch downloads url and returns a single-page ImageSource over its bytes.
func Fetch(ctx context.Context, url string) (*ImageSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("download %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", url)
	}
	if len(data) > maxDownloadBytes {
		return nil, errors.Errorf("download %s: larger than %d bytes", url, maxDownloadBytes)
	}
	return NewBlobSource(data), nil
}
