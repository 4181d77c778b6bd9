package extractor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/ocr"
	"hardsub/internal/ocrcache"
	"hardsub/internal/services"
	"hardsub/internal/subrip"
	"hardsub/internal/synth"
	"hardsub/internal/video"
)

// Extractor runs the extraction pipeline for one video at a time.
type Extractor struct {
	cfg      *config.Config
	logger   *slog.Logger
	detector ocr.Detector
	cache    *ocrcache.Store
}

// Result summarizes a completed (or partial) extraction run.
type Result struct {
	SubtitlePath     string
	Cues             []synth.Cue
	VideoDuration    float64
	FramesSampled    int
	FramesWithText   int
	MalformedDropped int
	FilteredDropped  int
	Elapsed          time.Duration
	// Partial reports that OCR failed partway and the subtitle file covers
	// only the frames recognized before the failure.
	Partial bool
}

// New builds an extractor from configuration, constructing the configured
// OCR backend and opening the detection cache when enabled.
func New(cfg *config.Config, logger *slog.Logger) (*Extractor, error) {
	if cfg == nil {
		return nil, errors.New("extractor requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	detector, err := detectorFor(cfg)
	if err != nil {
		return nil, err
	}

	var cache *ocrcache.Store
	if cfg.OCR.CacheEnabled {
		cache, err = ocrcache.Open(cfg.CachePath())
		if err != nil {
			return nil, fmt.Errorf("open detection cache: %w", err)
		}
	}

	return NewWithDetector(cfg, logger, detector, cache), nil
}

// NewWithDetector builds an extractor around an explicit detector. A nil
// cache disables detection caching.
func NewWithDetector(cfg *config.Config, logger *slog.Logger, detector ocr.Detector, cache *ocrcache.Store) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "extractor"),
		detector: detector,
		cache:    cache,
	}
}

// Close releases the detection cache.
func (e *Extractor) Close() error {
	return e.cache.Close()
}

func detectorFor(cfg *config.Config) (ocr.Detector, error) {
	switch cfg.OCR.Engine {
	case config.EnginePaddle:
		return ocr.NewPaddle(cfg.OCR.PaddleCommand, cfg.OCR.Language)
	default:
		return ocr.NewTesseract(cfg.OCR.Language), nil
	}
}

// Run extracts burned-in subtitles from the video at videoPath and writes an
// SRT file. On upstream failure with output.keep_partial set, the cues
// synthesized so far are still written and the returned Result carries
// Partial alongside the error.
func (e *Extractor) Run(ctx context.Context, videoPath string) (Result, error) {
	started := time.Now()

	videoPath, err := filepath.Abs(videoPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolve video path: %w", err)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "probe", "", videoPath, err)
	}

	runID := uuid.NewString()
	logger := e.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldVideo, videoPath),
	)

	details, err := video.Probe(ctx, e.cfg.Extraction.FFprobe, videoPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "", err)
	}
	logger.Info("probed video", logging.Args(
		logging.Float64("duration_s", details.Duration),
		logging.Int("width", details.Width),
		logging.Int("height", details.Height),
	)...)

	area := e.resolveArea(details)

	if err := e.cfg.EnsureDirectories(); err != nil {
		return Result{}, fmt.Errorf("ensure directories: %w", err)
	}
	lock := flock.New(e.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Result{}, errors.New("another hardsub run is in progress")
	}
	defer func() { _ = lock.Unlock() }()

	frameDir := filepath.Join(e.cfg.Paths.WorkDir, runID)
	if !e.cfg.Output.KeepWorkDir {
		defer func() { _ = os.RemoveAll(frameDir) }()
	}

	sampler := &video.Sampler{
		Binary:   e.cfg.Extraction.FFmpeg,
		Interval: e.cfg.Extraction.SampleInterval,
		Area:     area,
	}
	frames, err := sampler.Sample(ctx, videoPath, frameDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "sample", "ffmpeg", "", err)
	}
	logger.Info("sampled frames", logging.Args(
		logging.String(logging.FieldStage, "sample"),
		logging.Int("frames", len(frames)),
		logging.Float64("interval_s", e.cfg.Extraction.SampleInterval),
	)...)

	fingerprint := ""
	if e.cache != nil {
		fingerprint, err = ocrcache.Fingerprint(videoPath)
		if err != nil {
			logger.Warn("fingerprint failed, caching disabled for this run", logging.Args(logging.Error(err))...)
		}
	}

	detections, completed, ocrErr := e.recognizeFrames(ctx, logger, frames, fingerprint)

	result := Result{
		VideoDuration: details.Duration,
		FramesSampled: len(frames),
	}
	result.Cues, result.FramesWithText, result.MalformedDropped, result.FilteredDropped =
		e.buildCues(frames[:completed], detections)

	if ocrErr != nil {
		wrapped := services.Wrap(services.ErrExternalTool, "ocr", e.detector.Name(), "", ocrErr)
		if !e.cfg.Output.KeepPartial || len(result.Cues) == 0 {
			return result, wrapped
		}
		result.Partial = true
		result.SubtitlePath = outputPath(e.cfg, videoPath)
		if writeErr := subrip.Write(result.SubtitlePath, result.Cues); writeErr != nil {
			return result, errors.Join(wrapped, writeErr)
		}
		logger.Warn("wrote partial subtitles after ocr failure", logging.Args(
			logging.String("subtitle", result.SubtitlePath),
			logging.Int("cues", len(result.Cues)),
		)...)
		return result, wrapped
	}

	result.SubtitlePath = outputPath(e.cfg, videoPath)
	if err := subrip.Write(result.SubtitlePath, result.Cues); err != nil {
		return result, err
	}
	if issues, err := subrip.ValidateContent(result.SubtitlePath); err == nil && len(issues) > 0 {
		logger.Warn("subtitle validation reported issues", logging.Args(logging.Any("issues", issues))...)
	}

	result.Elapsed = time.Since(started)
	logger.Info("extraction complete", logging.Args(
		logging.String("subtitle", result.SubtitlePath),
		logging.Int("cues", len(result.Cues)),
		logging.Int("frames_with_text", result.FramesWithText),
		logging.Duration("elapsed", result.Elapsed),
	)...)
	return result, nil
}

// buildCues feeds recognized frames through normalization and synthesis in
// timestamp order and post-processes the emitted cues.
func (e *Extractor) buildCues(frames []video.Frame, detections [][]ocr.Detection) (cues []synth.Cue, withText, malformed, filtered int) {
	normalizer := synth.NewNormalizer(synth.NormalizerOptions{
		MinConfidence:     e.cfg.OCR.MinConfidence,
		MinTextLength:     e.cfg.Synthesis.MinTextLength,
		MaxTextLength:     e.cfg.Synthesis.MaxTextLength,
		DiscardCharacters: e.cfg.Synthesis.DiscardCharacters,
	})
	synthesizer := synth.NewSynthesizer(synth.Options{
		SimilarityThreshold: e.cfg.Synthesis.SimilarityThreshold,
		MaxGap:              e.cfg.Synthesis.MaxGap,
		Similarity:          synth.SimilarityByName(e.cfg.Synthesis.SimilarityMetric),
	})

	for i, frame := range frames {
		obs, ok := normalizer.Normalize(frame.Seconds, detections[i])
		if !ok {
			synthesizer.Tick(frame.Seconds)
			continue
		}
		withText++
		synthesizer.Observe(obs)
	}
	synthesizer.Flush()

	cues = synth.PostProcess(synthesizer.Cues(), synth.PostProcessOptions{
		MinCueDuration: e.cfg.Synthesis.MinCueDuration,
		MaxGap:         e.cfg.Synthesis.MaxGap,
	})
	return cues, withText, normalizer.MalformedCount(), normalizer.FilteredCount()
}

// resolveArea prefers the configured region of interest and falls back to
// the bottom quarter of the frame.
func (e *Extractor) resolveArea(details video.Details) image.Rectangle {
	if coords := e.cfg.Extraction.Area; len(coords) == 4 {
		return image.Rect(coords[0], coords[1], coords[2], coords[3])
	}
	return video.DefaultSubtitleArea(details.Width, details.Height)
}

// outputPath places the subtitle next to the video, or in the configured
// output directory, never clobbering an existing file.
func outputPath(cfg *config.Config, videoPath string) string {
	dir := cfg.Paths.OutputDir
	if dir == "" {
		dir = filepath.Dir(videoPath)
	}
	base := filepath.Base(videoPath)
	stem := base[:len(base)-len(filepath.Ext(base))]

	candidate := filepath.Join(dir, stem+".srt")
	for {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
		stem += " (new copy)"
		candidate = filepath.Join(dir, stem+".srt")
	}
}
