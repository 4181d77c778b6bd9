package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os/exec"
	"strings"
)

// Paddle drives an external PaddleOCR helper process. The helper receives
// the frame path as its final argument and prints a JSON payload:
//
//	{"detections": [{"text": "...", "box": [x1, y1, x2, y2], "confidence": 0.97}]}
type Paddle struct {
	argv     []string
	language string
}

// NewPaddle creates a Paddle detector from the configured helper command.
func NewPaddle(command, language string) (*Paddle, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("paddle command is empty")
	}
	return &Paddle{argv: argv, language: strings.TrimSpace(language)}, nil
}

// Name implements Detector.
func (p *Paddle) Name() string {
	return "paddle"
}

type paddleDetection struct {
	Text       string     `json:"text"`
	Box        [4]float64 `json:"box"`
	Confidence float64    `json:"confidence"`
}

type paddlePayload struct {
	Detections []paddleDetection `json:"detections"`
}

// Detect invokes the helper for one frame and parses its JSON output.
func (p *Paddle) Detect(ctx context.Context, path string) ([]Detection, error) {
	args := make([]string, 0, len(p.argv)+2)
	args = append(args, p.argv[1:]...)
	if p.language != "" {
		args = append(args, "--lang", p.language)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, p.argv[0], args...)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		if detail != "" {
			return nil, fmt.Errorf("paddle helper: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("paddle helper: %w", err)
	}

	return parsePaddleOutput(output)
}

func parsePaddleOutput(output []byte) ([]Detection, error) {
	var payload paddlePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("parse paddle output: %w", err)
	}

	detections := make([]Detection, 0, len(payload.Detections))
	for _, det := range payload.Detections {
		text := strings.TrimSpace(det.Text)
		if text == "" {
			continue
		}
		detections = append(detections, Detection{
			Text: text,
			Box: image.Rect(
				int(det.Box[0]), int(det.Box[1]),
				int(det.Box[2]), int(det.Box[3]),
			),
			Confidence: det.Confidence,
		})
	}
	return detections, nil
}
