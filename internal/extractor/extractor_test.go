package extractor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"hardsub/internal/config"
	"hardsub/internal/logging"
	"hardsub/internal/ocr"
	"hardsub/internal/ocrcache"
	"hardsub/internal/testsupport"
	"hardsub/internal/video"
)

// fakeDetector serves canned detections keyed by frame path and counts
// backend invocations.
type fakeDetector struct {
	byPath map[string][]ocr.Detection
	failOn string
	calls  atomic.Int64
}

func (f *fakeDetector) Detect(_ context.Context, path string) ([]ocr.Detection, error) {
	f.calls.Add(1)
	if f.failOn != "" && path == f.failOn {
		return nil, errors.New("engine crashed")
	}
	return f.byPath[path], nil
}

func (f *fakeDetector) Name() string { return "fake" }

func det(text string, confidence float64) ocr.Detection {
	return ocr.Detection{Text: text, Box: image.Rect(0, 0, 100, 20), Confidence: confidence}
}

func newTestExtractor(t *testing.T, detector ocr.Detector, cache *ocrcache.Store) (*Extractor, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return NewWithDetector(cfg, logging.NewNop(), detector, cache), cfg
}

func makeFrames(interval float64, n int) []video.Frame {
	frames := make([]video.Frame, n)
	for i := range frames {
		seconds := float64(i) * interval
		frames[i] = video.Frame{Seconds: seconds, Path: fmt.Sprintf("%d.png", int(seconds*1000))}
	}
	return frames
}

func TestRecognizeFramesOrdersResults(t *testing.T) {
	frames := makeFrames(0.5, 8)
	detector := &fakeDetector{byPath: map[string][]ocr.Detection{}}
	for i, frame := range frames {
		detector.byPath[frame.Path] = []ocr.Detection{det(fmt.Sprintf("line %d", i), 0.9)}
	}
	e, _ := newTestExtractor(t, detector, nil)

	detections, completed, err := e.recognizeFrames(context.Background(), e.logger, frames, "")
	if err != nil {
		t.Fatalf("recognizeFrames: %v", err)
	}
	if completed != len(frames) {
		t.Fatalf("completed = %d, want %d", completed, len(frames))
	}
	for i := range frames {
		want := fmt.Sprintf("line %d", i)
		if len(detections[i]) != 1 || detections[i][0].Text != want {
			t.Errorf("frame %d detections = %+v, want text %q", i, detections[i], want)
		}
	}
}

func TestRecognizeFramesPartialOnFailure(t *testing.T) {
	frames := makeFrames(0.5, 6)
	detector := &fakeDetector{byPath: map[string][]ocr.Detection{}, failOn: frames[3].Path}
	e, cfg := newTestExtractor(t, detector, nil)
	cfg.OCR.MaxWorkers = 1

	detections, completed, err := e.recognizeFrames(context.Background(), e.logger, frames, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if completed != 3 {
		t.Fatalf("completed = %d, want 3", completed)
	}
	if len(detections) != 3 {
		t.Fatalf("len(detections) = %d, want 3", len(detections))
	}
}

func TestRecognizeFramesUsesCache(t *testing.T) {
	frames := makeFrames(0.5, 4)
	detector := &fakeDetector{byPath: map[string][]ocr.Detection{
		frames[0].Path: {det("cached line", 0.9)},
	}}
	cache, err := ocrcache.Open(filepath.Join(t.TempDir(), "detections.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()
	e, _ := newTestExtractor(t, detector, cache)

	if _, _, err := e.recognizeFrames(context.Background(), e.logger, frames, "fp"); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	firstCalls := detector.calls.Load()
	if firstCalls != int64(len(frames)) {
		t.Fatalf("first pass calls = %d, want %d", firstCalls, len(frames))
	}

	detections, completed, err := e.recognizeFrames(context.Background(), e.logger, frames, "fp")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if completed != len(frames) {
		t.Fatalf("completed = %d", completed)
	}
	if detector.calls.Load() != firstCalls {
		t.Errorf("second pass hit the backend %d more times", detector.calls.Load()-firstCalls)
	}
	if len(detections[0]) != 1 || detections[0][0].Text != "cached line" {
		t.Errorf("cached detections = %+v", detections[0])
	}
}

func TestBuildCuesDeduplicatesFrames(t *testing.T) {
	e, _ := newTestExtractor(t, &fakeDetector{}, nil)

	frames := makeFrames(0.5, 11)
	detections := make([][]ocr.Detection, len(frames))
	// "Hi there" visible from 1.0s to 2.0s with one OCR wobble, then a gap,
	// then "Next line" at 5.0s.
	detections[2] = []ocr.Detection{det("Hi there", 0.9)}
	detections[3] = []ocr.Detection{det("Hi there!", 0.85)}
	detections[4] = []ocr.Detection{det("Hi there", 0.92)}
	detections[10] = []ocr.Detection{det("Next line", 0.9)}

	cues, withText, malformed, filtered := e.buildCues(frames, detections)
	if withText != 4 {
		t.Errorf("withText = %d, want 4", withText)
	}
	if malformed != 0 || filtered != 0 {
		t.Errorf("malformed = %d filtered = %d, want 0", malformed, filtered)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2: %+v", len(cues), cues)
	}
	if cues[0].Text != "Hi there" || cues[0].Start != 1.0 || cues[0].End != 2.0 {
		t.Errorf("first cue = %+v", cues[0])
	}
	if cues[1].Text != "Next line" || cues[1].Start != 5.0 {
		t.Errorf("second cue = %+v", cues[1])
	}
}

func TestBuildCuesFiltersLowConfidence(t *testing.T) {
	e, cfg := newTestExtractor(t, &fakeDetector{}, nil)
	cfg.OCR.MinConfidence = 0.6

	frames := makeFrames(0.5, 3)
	detections := [][]ocr.Detection{
		{det("noise", 0.2)},
		{det("noise", 0.3)},
		{det("noise", 0.1)},
	}

	cues, withText, _, filtered := e.buildCues(frames, detections)
	if len(cues) != 0 {
		t.Errorf("cues = %+v, want none", cues)
	}
	if withText != 0 {
		t.Errorf("withText = %d, want 0", withText)
	}
	if filtered != 3 {
		t.Errorf("filtered = %d, want 3", filtered)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	videoDir := t.TempDir()
	videoPath := filepath.Join(videoDir, "movie.mkv")

	got := outputPath(cfg, videoPath)
	want := filepath.Join(cfg.Paths.OutputDir, "movie.srt")
	if got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}

	cfg.Paths.OutputDir = ""
	got = outputPath(cfg, videoPath)
	want = filepath.Join(videoDir, "movie.srt")
	if got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}

	if err := os.WriteFile(want, []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}
	got = outputPath(cfg, videoPath)
	want = filepath.Join(videoDir, "movie (new copy).srt")
	if got != want {
		t.Errorf("outputPath with conflict = %q, want %q", got, want)
	}
}
