package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/ivlev/motionposter/internal/config"
	"github.com/ivlev/motionposter/internal/depth"
	"github.com/ivlev/motionposter/internal/effects"
	"github.com/ivlev/motionposter/internal/log"
	"github.com/ivlev/motionposter/internal/manifest"
	"github.com/ivlev/motionposter/internal/source"
	"github.com/ivlev/motionposter/internal/system"
	"github.com/ivlev/motionposter/internal/video"
)

const (
	VideoFileName    = "motion.mp4"
	DepthMapFileName = "depth_map.png"
	ConfigFileName   = "config.yaml"
	BenchmarkLog     = "benchmark.log"
)

var fs = afero.NewOsFs()

type VideoProject struct {
	Config    *config.Config
	Source    source.Source
	Estimator depth.Estimator
	Encoder   video.VideoEncoder
	// Out receives the banner and the performance report.
	Out io.Writer
}

func NewVideoProject(cfg *config.Config, src source.Source, est depth.Estimator, ve video.VideoEncoder) *VideoProject {
	return &VideoProject{
		Config:    cfg,
		Source:    src,
		Estimator: est,
		Encoder:   ve,
		Out:       os.Stdout,
	}
}

// VideoPath is where Run writes the loop: the configured output, or
// motion.mp4 inside a fresh <root>/<stamp>-<slug> directory.
func (p *VideoProject) VideoPath(now time.Time) string {
	if p.Config.OutputVideo != "" {
		return p.Config.OutputVideo
	}
	return filepath.Join(manifest.OutputDir(p.Config.OutputRoot, p.Config.InputPath, now), VideoFileName)
}

// Run loads the poster, estimates and normalizes depth, renders the loop and
// streams it to the encoder. Nothing is estimated when the schedule is empty,
// and a failed run leaves no partial video behind.
func (p *VideoProject) Run(ctx context.Context) (*manifest.Manifest, error) {
	startTime := time.Now()
	cfg := p.Config

	sched, err := NewSchedule(cfg.Duration, cfg.FPS)
	if err != nil {
		return nil, err
	}
	eff, err := effects.Parse(cfg.Effect)
	if err != nil {
		return nil, err
	}

	poster, err := source.LoadPoster(p.Source, cfg.Page, cfg.DPI, cfg.MaxWidth)
	if err != nil {
		return nil, stageErr(StageLoading, err)
	}
	w, h := poster.Rect.Dx(), poster.Rect.Dy()

	videoPath := p.VideoPath(startTime)
	outDir := filepath.Dir(videoPath)

	fmt.Fprintln(p.Out, "--- [PROJECT: MOTION POSTER] ---")
	fmt.Fprintf(p.Out, "[*] Источник: %s | %dx%d\n", cfg.InputPath, w, h)
	fmt.Fprintf(p.Out, "[*] Эффект: %s x%.2f | %d кадров @ %d FPS\n", eff, cfg.Intensity, sched.Frames, sched.FPS)
	fmt.Fprintf(p.Out, "[*] Система: %s\n", system.Describe())
	fmt.Fprintln(p.Out, "-----------------------------")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Depth
	estimateStart := time.Now()
	field, err := p.estimate(ctx, poster)
	if err != nil {
		return nil, err
	}
	estimateTime := time.Since(estimateStart)

	if err := fs.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create %s", outDir)
	}

	depthPath := ""
	if cfg.SaveDepth {
		depthPath = filepath.Join(outDir, DepthMapFileName)
		if err := p.saveDepth(depthPath, field); err != nil {
			log.Warn("[!] Не удалось сохранить карту глубины: %v", err)
			depthPath = ""
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Frames -> encoder
	renderStart := time.Now()
	writer, err := p.Encoder.Open(ctx, videoPath, video.Spec{Width: w, Height: h, FPS: sched.FPS, Quality: cfg.Quality})
	if err != nil {
		return nil, stageErr(StageEncoding, err)
	}

	seq := &Sequencer{
		Source:    poster,
		Field:     field,
		Effect:    eff,
		Intensity: cfg.Intensity,
		Schedule:  sched,
		Workers:   cfg.WorkerCount(),
	}
	err = seq.Run(ctx, func(i int, frame *image.RGBA) error {
		return writer.WriteFrame(frame)
	})
	if err != nil {
		err = withCloseReason(err, writer.Close())
		p.discard(videoPath)
		return nil, err
	}
	if err := writer.Close(); err != nil {
		p.discard(videoPath)
		return nil, stageErr(StageEncoding, err)
	}
	renderTime := time.Since(renderStart)

	m := manifest.New(cfg.InputPath)
	m.Parameters = manifest.Parameters{
		Effect:    eff.String(),
		Duration:  cfg.Duration,
		FPS:       sched.FPS,
		Intensity: cfg.Intensity,
		Model:     cfg.Model,
	}
	m.Frames = sched.Frames
	m.Width, m.Height = w, h
	m.Depth = manifest.DepthStats{Min: field.RawMin, Max: field.RawMax, Degenerate: field.Degenerate}
	m.Encoder = encoderName(p.Encoder)
	configPath := filepath.Join(outDir, ConfigFileName)
	if err := config.Save(configPath, cfg); err != nil {
		log.Warn("[!] Не удалось сохранить параметры: %v", err)
		configPath = ""
	}

	m.Outputs = manifest.Outputs{Video: videoPath, DepthMap: depthPath, Config: configPath}
	m.Timings = manifest.Timings{
		Estimation: estimateTime.Seconds(),
		Synthesis:  renderTime.Seconds(),
		Total:      time.Since(startTime).Seconds(),
	}

	if err := manifest.Write(m, filepath.Join(outDir, manifest.FileName)); err != nil {
		log.Warn("[!] Не удалось записать манифест: %v", err)
	}

	fmt.Fprintf(p.Out, "[*] Готово: %s\n", videoPath)
	if cfg.ShowStats {
		p.report(m)
	}
	return m, nil
}

func (p *VideoProject) estimate(ctx context.Context, poster *image.RGBA) (*depth.Field, error) {
	w, h := poster.Rect.Dx(), poster.Rect.Dy()

	raw, err := p.Estimator.Estimate(ctx, poster)
	if err != nil {
		return nil, stageErr(StageEstimation, err)
	}
	if raw == nil {
		return nil, stageErr(StageEstimation, errors.New("estimator returned no depth map"))
	}
	if raw.Width != w || raw.Height != h {
		log.Debug("resampling depth %dx%d -> %dx%d", raw.Width, raw.Height, w, h)
		if raw, err = depth.Resample(raw, w, h); err != nil {
			return nil, stageErr(StageEstimation, err)
		}
	}

	field, err := depth.Normalize(raw)
	if err != nil {
		return nil, stageErr(StageEstimation, err)
	}
	if field.Degenerate {
		log.Warn("[!] Карта глубины однородна (min=max=%g), движение отключено", field.RawMin)
	}
	return field, nil
}

func (p *VideoProject) saveDepth(path string, field *depth.Field) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := depth.WritePNG(f, field); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// withCloseReason attaches the writer's close error to a failed encoding
// stage. An encoder that dies mid-stream reports why only when closed, the
// write itself just sees a broken pipe.
func withCloseReason(err, closeErr error) error {
	if closeErr == nil {
		return err
	}
	var se *StageError
	if errors.As(err, &se) && se.Stage == StageEncoding {
		return stageErr(StageEncoding, errors.Wrapf(closeErr, "%v", se.Err))
	}
	log.Debug("close after failure: %v", closeErr)
	return err
}

func (p *VideoProject) discard(path string) {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Debug("remove partial video %s: %v", path, err)
	}
}

func (p *VideoProject) report(m *manifest.Manifest) {
	fps := 0.0
	if m.Timings.Total > 0 {
		fps = float64(m.Frames) / m.Timings.Total
	}
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Depth Estimation: %.2fs\n"+
			"Rendering + Encoding: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, m.Timings.Total, m.Timings.Estimation, m.Timings.Synthesis, fps,
	)
	fmt.Fprint(p.Out, report)

	if err := manifest.AppendBenchmark(BenchmarkLog, m, p.Config.BuildVersion); err != nil {
		fmt.Fprintf(p.Out, "[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func encoderName(enc video.VideoEncoder) string {
	if s, ok := enc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", enc)
}
