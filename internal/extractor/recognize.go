package extractor

import (
	"context"
	"log/slog"
	"math"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"hardsub/internal/logging"
	"hardsub/internal/ocr"
	"hardsub/internal/video"
)

type frameOCR struct {
	detections []ocr.Detection
	err        error
	done       bool
}

// recognizeFrames runs OCR over the sampled frames with a bounded worker
// pool. On failure the remaining work is cancelled and the contiguous prefix
// of recognized frames is returned along with the first error, so callers
// can still synthesize partial output.
func (e *Extractor) recognizeFrames(ctx context.Context, logger *slog.Logger, frames []video.Frame, fingerprint string) ([][]ocr.Detection, int, error) {
	results := make([]frameOCR, len(frames))
	if len(frames) == 0 {
		return nil, 0, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := e.cfg.OCR.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(frames) {
		workers = len(frames)
	}

	bar := newProgressBar(len(frames))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				detections, err := e.recognizeFrame(ctx, logger, frames[idx], fingerprint)
				results[idx] = frameOCR{detections: detections, err: err, done: true}
				if err != nil {
					cancel()
					return
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for idx := range frames {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	var firstErr error
	completed := 0
	for _, res := range results {
		if !res.done || res.err != nil {
			if res.err != nil {
				firstErr = res.err
			}
			break
		}
		completed++
	}
	if firstErr == nil && completed < len(frames) {
		// A later worker failed before this frame was picked up.
		for _, res := range results[completed:] {
			if res.err != nil {
				firstErr = res.err
				break
			}
		}
		if firstErr == nil {
			firstErr = ctx.Err()
		}
	}

	detections := make([][]ocr.Detection, completed)
	for i := range detections {
		detections[i] = results[i].detections
	}
	return detections, completed, firstErr
}

// recognizeFrame consults the detection cache before invoking the OCR
// backend. Cache failures degrade to a recompute, never a run failure.
func (e *Extractor) recognizeFrame(ctx context.Context, logger *slog.Logger, frame video.Frame, fingerprint string) ([]ocr.Detection, error) {
	tsMillis := int64(math.Round(frame.Seconds * 1000))
	cacheable := e.cache != nil && fingerprint != ""

	if cacheable {
		cached, ok, err := e.cache.Get(ctx, fingerprint, tsMillis, e.detector.Name())
		if err != nil {
			logger.Warn("cache lookup failed", logging.Args(
				logging.Int64("ts_ms", tsMillis),
				logging.Error(err),
			)...)
		} else if ok {
			return cached, nil
		}
	}

	detections, err := e.detector.Detect(ctx, frame.Path)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := e.cache.Put(ctx, fingerprint, tsMillis, e.detector.Name(), detections); err != nil {
			logger.Warn("cache store failed", logging.Args(
				logging.Int64("ts_ms", tsMillis),
				logging.Error(err),
			)...)
		}
	}
	return detections, nil
}

// newProgressBar returns a progress bar bound to stderr, or nil when stderr
// is not a terminal.
func newProgressBar(total int) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("recognizing frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
