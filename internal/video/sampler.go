package video

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Frame is one sampled frame image on disk with its source timestamp.
type Frame struct {
	// Seconds is the frame's position in the source video. Frames returned
	// by the sampler are ordered by this value.
	Seconds float64
	Path    string
}

// Sampler extracts frames from a video at a fixed interval using ffmpeg.
type Sampler struct {
	// Binary is the ffmpeg executable. Empty means "ffmpeg" from PATH.
	Binary string
	// Interval is the number of seconds between sampled frames.
	Interval float64
	// Area crops each frame to the subtitle region of interest. The zero
	// rectangle keeps the full frame.
	Area image.Rectangle
}

// Sample decodes the video and writes one frame image per interval into dir.
// Frame files are named by their millisecond position so a directory listing
// alone recovers the timeline.
func (s *Sampler) Sample(ctx context.Context, videoPath, dir string) ([]Frame, error) {
	if s.Interval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", s.Interval)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame directory: %w", err)
	}

	binary := strings.TrimSpace(s.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	pattern := filepath.Join(dir, "frame-%06d.png")
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", s.filterChain(),
		"-y", pattern,
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg sample: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return collectFrames(dir, s.Interval)
}

// filterChain builds the ffmpeg -vf argument: optional ROI crop, then rate
// reduction to one frame per interval.
func (s *Sampler) filterChain() string {
	var filters []string
	if !s.Area.Empty() {
		filters = append(filters, fmt.Sprintf(
			"crop=%d:%d:%d:%d",
			s.Area.Dx(), s.Area.Dy(), s.Area.Min.X, s.Area.Min.Y,
		))
	}
	filters = append(filters, fmt.Sprintf("fps=1/%s", formatInterval(s.Interval)))
	return strings.Join(filters, ",")
}

// collectFrames renames the sequentially numbered ffmpeg output to
// millisecond-stamped files and returns them in timestamp order. The fps
// filter emits frame N at position (N-1) * interval.
func collectFrames(dir string, interval float64) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	frames := make([]Frame, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := frameIndex(entry.Name())
		if !ok {
			continue
		}
		seconds := float64(index-1) * interval
		stamped := filepath.Join(dir, fmt.Sprintf("%d.png", int64(seconds*1000)))
		if err := os.Rename(filepath.Join(dir, entry.Name()), stamped); err != nil {
			return nil, fmt.Errorf("stamp frame: %w", err)
		}
		frames = append(frames, Frame{Seconds: seconds, Path: stamped})
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].Seconds < frames[j].Seconds })
	return frames, nil
}

func frameIndex(name string) (int, bool) {
	if !strings.HasPrefix(name, "frame-") || !strings.HasSuffix(name, ".png") {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, "frame-"), ".png")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 1 {
		return 0, false
	}
	return index, true
}

func formatInterval(interval float64) string {
	return strconv.FormatFloat(interval, 'f', -1, 64)
}
