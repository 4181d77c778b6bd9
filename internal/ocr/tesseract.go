package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text using libtesseract via gosseract.
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract detector for the given language pack
// (e.g. "eng", "chi_sim").
func NewTesseract(language string) *Tesseract {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// Name implements Detector.
func (t *Tesseract) Name() string {
	return "tesseract"
}

// Detect runs textline-level recognition on the image at path.
//
// gosseract clients are not safe for concurrent use, so a fresh client is
// created per call; this also keeps leptonica image state from accumulating
// across frames.
func (t *Tesseract) Detect(ctx context.Context, path string) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("tesseract language %q: %w", t.language, err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("tesseract set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognize: %w", err)
	}

	detections := make([]Detection, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		detections = append(detections, Detection{
			Text:       text,
			Box:        box.Box,
			Confidence: clampConfidence(box.Confidence / 100),
		})
	}
	return detections, nil
}

func clampConfidence(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
