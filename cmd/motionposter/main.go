package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"github.com/ivlev/motionposter/internal/analyzer"
	"github.com/ivlev/motionposter/internal/config"
	"github.com/ivlev/motionposter/internal/depth"
	"github.com/ivlev/motionposter/internal/effects"
	"github.com/ivlev/motionposter/internal/engine"
	"github.com/ivlev/motionposter/internal/log"
	"github.com/ivlev/motionposter/internal/source"
	"github.com/ivlev/motionposter/internal/system"
	"github.com/ivlev/motionposter/internal/video"
)

var version = "dev"

const defaultInputDir = "input/posters"

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{defaultInputDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	cfg := config.Default()
	configPtr := flag.String("config", "", "YAML-файл с параметрами (флаги командной строки имеют приоритет)")
	flag.StringVar(&cfg.InputPath, "input", "", "Постер: файл, папка, PDF или http(s) URL (по умолчанию: самый свежий файл в input/posters/)")
	flag.StringVar(&cfg.OutputVideo, "output", "", "Путь к видео (если пусто: output/<дата>-<имя>/motion.mp4)")
	flag.StringVar(&cfg.OutputRoot, "output-root", cfg.OutputRoot, "Корневая папка для автоматических директорий")
	flag.StringVar(&cfg.Effect, "effect", cfg.Effect, "Эффект: "+strings.Join(effects.Names, ", "))
	flag.Float64Var(&cfg.Duration, "duration", cfg.Duration, "Длительность цикла (сек)")
	flag.IntVar(&cfg.FPS, "fps", cfg.FPS, "FPS")
	flag.Float64Var(&cfg.Intensity, "intensity", cfg.Intensity, "Сила движения (0 - неподвижно, >1 - усиленно)")
	flag.IntVar(&cfg.Workers, "workers", 0, "Потоки (0 - по числу ядер)")
	flag.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "Уменьшить постер до этой ширины (0 - без изменений)")
	flag.IntVar(&cfg.Page, "page", 0, "Страница PDF или номер изображения в папке")
	flag.IntVar(&cfg.DPI, "dpi", cfg.DPI, "DPI для PDF")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "Модель глубины: "+strings.Join(append(depth.ModelKeys(), analyzer.Name), ", "))
	flag.StringVar(&cfg.ModelDir, "model-dir", cfg.ModelDir, "Папка с ONNX-моделями")
	flag.StringVar(&cfg.ModelPath, "model-path", "", "Явный путь к ONNX-файлу модели")
	flag.StringVar(&cfg.ORTLibrary, "ort-lib", "", "Путь к библиотеке onnxruntime (или ONNXRUNTIME_SHARED_LIBRARY_PATH)")
	flag.StringVar(&cfg.VideoEncoder, "encoder", "", "H.264 энкодер ffmpeg (пусто - автовыбор)")
	flag.IntVar(&cfg.Quality, "quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	flag.BoolVar(&cfg.SaveDepth, "save-depth", cfg.SaveDepth, "Сохранить depth_map.png рядом с видео")
	flag.BoolVar(&cfg.ShowStats, "stats", false, "Показать отчет о производительности и дописать benchmark.log")
	verbosePtr := flag.Bool("verbose", false, "Подробный лог")

	flag.Parse()
	log.SetVerbose(*verbosePtr)

	if *configPtr != "" {
		base, err := config.Load(*configPtr)
		if err != nil {
			fail(err)
		}
		flag.Visit(func(f *flag.Flag) { override(base, cfg, f.Name) })
		cfg = base
	}
	cfg.BuildVersion = version

	if err := cfg.RunValidate(); err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		fail(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Пустой цикл отсекаем до загрузки постера и модели
	if _, err := engine.NewSchedule(cfg.Duration, cfg.FPS); err != nil {
		return err
	}

	input, err := resolveInput(cfg.InputPath)
	if err != nil {
		return err
	}
	cfg.InputPath = input

	src, err := source.Open(ctx, input)
	if err != nil {
		return &engine.StageError{Stage: engine.StageLoading, Err: err}
	}
	defer src.Close()

	est, closeEst, err := newEstimator(cfg)
	if err != nil {
		return &engine.StageError{Stage: engine.StageEstimation, Err: err}
	}
	defer closeEst()

	enc, err := video.Select(cfg.VideoEncoder)
	if err != nil {
		return &engine.StageError{Stage: engine.StageEncoding, Err: err}
	}

	m, err := engine.NewVideoProject(cfg, src, est, enc).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", m.Outputs.Video)
	return nil
}

// newEstimator returns the contrast heuristic or an ONNX session for cfg.Model.
func newEstimator(cfg *config.Config) (depth.Estimator, func() error, error) {
	if cfg.Model == analyzer.Name {
		log.Warn("[!] Используется эвристическая оценка глубины (contrast)")
		est, err := analyzer.NewEstimator(cfg.Model)
		return est, func() error { return nil }, err
	}

	model, err := depth.LookupModel(cfg.Model, cfg.ModelDir, cfg.ModelPath)
	if err != nil {
		return nil, nil, err
	}
	est, err := depth.NewONNXEstimator(model, cfg.ORTLibrary)
	if err != nil {
		return nil, nil, err
	}
	return est, est.Close, nil
}

// resolveInput picks the newest poster when input is empty or a directory.
func resolveInput(input string) (string, error) {
	if input == "" {
		input = defaultInputDir
	}
	if source.IsURL(input) {
		return input, nil
	}
	fi, err := os.Stat(input)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return input, nil
	}
	latest, err := system.FindLatestImage(input)
	if err != nil {
		return "", errors.Wrapf(err, "положите постер в %s", input)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return latest, nil
}

// override copies the field behind an explicitly set flag from flags to dst.
func override(dst, flags *config.Config, name string) {
	switch name {
	case "input":
		dst.InputPath = flags.InputPath
	case "output":
		dst.OutputVideo = flags.OutputVideo
	case "output-root":
		dst.OutputRoot = flags.OutputRoot
	case "effect":
		dst.Effect = flags.Effect
	case "duration":
		dst.Duration = flags.Duration
	case "fps":
		dst.FPS = flags.FPS
	case "intensity":
		dst.Intensity = flags.Intensity
	case "workers":
		dst.Workers = flags.Workers
	case "max-width":
		dst.MaxWidth = flags.MaxWidth
	case "page":
		dst.Page = flags.Page
	case "dpi":
		dst.DPI = flags.DPI
	case "model":
		dst.Model = flags.Model
	case "model-dir":
		dst.ModelDir = flags.ModelDir
	case "model-path":
		dst.ModelPath = flags.ModelPath
	case "ort-lib":
		dst.ORTLibrary = flags.ORTLibrary
	case "encoder":
		dst.VideoEncoder = flags.VideoEncoder
	case "quality":
		dst.Quality = flags.Quality
	case "save-depth":
		dst.SaveDepth = flags.SaveDepth
	case "stats":
		dst.ShowStats = flags.ShowStats
	}
}

func fail(err error) {
	var stageErr *engine.StageError
	if errors.As(err, &stageErr) {
		log.Error("[-] Ошибка на этапе %s: %v", stageErr.Stage, stageErr.Err)
	} else {
		log.Error("[-] Ошибка: %v", err)
	}
	os.Exit(1)
}
