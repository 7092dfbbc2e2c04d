//go:build !gocv

package video

import "github.com/pkg/errors"

func newCVEncoder() (VideoEncoder, error) {
	return nil, errors.Wrap(ErrNoEncoder, "install ffmpeg or build with -tags gocv")
}
