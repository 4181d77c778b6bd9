package ocr

import (
	"context"
	"image"
)

// Detection is one raw OCR result for a single frame.
type Detection struct {
	// Text is the recognized string, unnormalized.
	Text string `json:"text"`
	// Box is the bounding rectangle in frame coordinates. When the frame was
	// cropped to a region of interest the coordinates are crop-relative.
	Box image.Rectangle `json:"box"`
	// Confidence is the engine's recognition score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Detector recognizes text regions within a single image file.
//
// Implementations must be safe for concurrent use; the pipeline calls Detect
// from multiple workers.
type Detector interface {
	// Detect returns zero or more detections for the image at path.
	Detect(ctx context.Context, path string) ([]Detection, error)
	// Name identifies the backend for logging and cache keying.
	Name() string
}
