package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/ivlev/motionposter/internal/log"
	"github.com/ivlev/motionposter/internal/system"
)

var (
	ErrNoEncoder = errors.New("no video encoder available")
	ErrFrameSize = errors.New("frame size does not match stream")
)

// Spec describes the stream a FrameWriter produces.
type Spec struct {
	Width   int
	Height  int
	FPS     int
	Quality int
}

// VideoEncoder opens a sink for an ordered sequence of equally sized frames.
type VideoEncoder interface {
	Open(ctx context.Context, path string, spec Spec) (FrameWriter, error)
}

// FrameWriter receives frames in display order. Close finalizes the file.
type FrameWriter interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	Binary string
	Codec  string
}

func NewFFmpegEncoder(codec string) *FFmpegEncoder {
	if codec == "" {
		codec = "libx264"
	}
	return &FFmpegEncoder{Binary: "ffmpeg", Codec: codec}
}

func (e *FFmpegEncoder) String() string { return "ffmpeg/" + e.Codec }

func (e *FFmpegEncoder) Open(ctx context.Context, path string, spec Spec) (FrameWriter, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.FPS <= 0 {
		return nil, errors.Errorf("invalid stream %dx%d @ %d", spec.Width, spec.Height, spec.FPS)
	}
	if spec.Quality <= 0 {
		spec.Quality = system.DefaultQuality(e.Codec)
	}

	args := e.buildFFmpegArgs(path, spec)
	log.Debug("ffmpeg %s", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.Binary, args...)
	stderr := &bytes.Buffer{}
	cmd.Stdout = stderr
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdin pipe error")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "ffmpeg start error")
	}

	return &ffmpegWriter{cmd: cmd, stdin: stdin, stderr: stderr, rect: image.Rect(0, 0, spec.Width, spec.Height)}, nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(videoPath string, spec Spec) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-framerate", fmt.Sprintf("%d", spec.FPS),
		"-i", "-",
		// libx264 и yuv420p требуют четных размеров
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", e.Codec,
	}

	// Качество в зависимости от энкодера
	switch e.Codec {
	case "h264_videotoolbox":
		bitrate := spec.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", spec.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", spec.Quality), "-preset", "medium")
	}

	args = append(args, "-pix_fmt", "yuv420p", "-movflags", "+faststart", videoPath)
	return args
}

type ffmpegWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	rect   image.Rectangle
}

func (w *ffmpegWriter) WriteFrame(img *image.RGBA) error {
	if img.Bounds().Size() != w.rect.Size() {
		return errors.Wrapf(ErrFrameSize, "got %v, want %v", img.Bounds().Size(), w.rect.Size())
	}
	if err := writeRawRGBA(w.stdin, img); err != nil {
		return errors.Wrap(err, "write raw error")
	}
	return nil
}

func (w *ffmpegWriter) Close() error {
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return errors.Wrapf(err, "ffmpeg wait error: %s", strings.TrimSpace(w.stderr.String()))
	}
	return nil
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(packed, packed.Bounds(), img, bounds.Min, draw.Src)
		img = packed
	}
	_, err := w.Write(img.Pix)
	return err
}

// Select returns the ffmpeg encoder when ffmpeg is installed, otherwise the
// OpenCV mp4v writer if the binary was built with it. codec overrides the
// probed H.264 encoder.
func Select(codec string) (VideoEncoder, error) {
	if system.HasFFmpeg() {
		if codec == "" {
			codec = system.GetBestH264Encoder()
			log.Info("[*] encoder: %s", codec)
		}
		return NewFFmpegEncoder(codec), nil
	}

	log.Warn("[!] ffmpeg not found, falling back to OpenCV mp4v")
	enc, err := newCVEncoder()
	if err != nil {
		return nil, err
	}
	return enc, nil
}
