package synth

import (
	"image"
	"sort"
	"strings"

	"hardsub/internal/ocr"
	"hardsub/internal/textutil"
)

// NormalizerOptions configures detection filtering.
type NormalizerOptions struct {
	// MinConfidence discards detections scored below it.
	MinConfidence float64
	// MinTextLength and MaxTextLength bound the normalized text length in
	// runes; out-of-range text is treated as OCR noise.
	MinTextLength int
	MaxTextLength int
	// DiscardCharacters lists runes stripped before normalization.
	DiscardCharacters string
	// Area keeps only detections whose box overlaps it. The zero rectangle
	// disables the check (the sampler already cropped to the ROI).
	Area image.Rectangle
}

// Normalizer converts the raw detections of one frame into zero or one
// Observation. It holds no per-frame state; the counters only aggregate
// diagnostics across a run.
type Normalizer struct {
	opts      NormalizerOptions
	malformed int
	filtered  int
}

// NewNormalizer creates a Normalizer with the given options.
func NewNormalizer(opts NormalizerOptions) *Normalizer {
	if opts.MinTextLength < 1 {
		opts.MinTextLength = 1
	}
	return &Normalizer{opts: opts}
}

// Normalize reduces detections for the frame at the given timestamp to at
// most one Observation. Frames where nothing survives filtering report
// ok=false and are treated as gaps by the synthesizer.
func (n *Normalizer) Normalize(seconds float64, detections []ocr.Detection) (Observation, bool) {
	survivors := make([]ocr.Detection, 0, len(detections))
	for _, det := range detections {
		if det.Confidence < 0 || det.Confidence > 1 || strings.TrimSpace(det.Text) == "" {
			n.malformed++
			continue
		}
		if det.Confidence < n.opts.MinConfidence {
			n.filtered++
			continue
		}
		if !n.opts.Area.Empty() && !det.Box.Overlaps(n.opts.Area) {
			n.filtered++
			continue
		}
		text := textutil.NormalizeLine(det.Text, n.opts.DiscardCharacters)
		length := len([]rune(text))
		if length < n.opts.MinTextLength || (n.opts.MaxTextLength > 0 && length > n.opts.MaxTextLength) {
			n.filtered++
			continue
		}
		det.Text = text
		survivors = append(survivors, det)
	}

	if len(survivors) == 0 {
		return Observation{}, false
	}

	// Multi-line captions: concatenate top to bottom, preserving reading order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Box.Min.Y < survivors[j].Box.Min.Y
	})

	lines := make([]string, 0, len(survivors))
	box := survivors[0].Box
	confidence := survivors[0].Confidence
	for _, det := range survivors {
		lines = append(lines, det.Text)
		box = box.Union(det.Box)
		if det.Confidence < confidence {
			confidence = det.Confidence
		}
	}

	return Observation{
		Seconds:    seconds,
		Text:       strings.Join(lines, "\n"),
		Box:        box,
		Confidence: confidence,
	}, true
}

// MalformedCount reports detections dropped for out-of-range confidence or
// degenerate text.
func (n *Normalizer) MalformedCount() int {
	return n.malformed
}

// FilteredCount reports detections dropped by the configured thresholds.
func (n *Normalizer) FilteredCount() int {
	return n.filtered
}
