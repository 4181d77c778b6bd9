package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
)

// Details describes the video properties the pipeline needs.
type Details struct {
	Duration float64
	FPS      float64
	Width    int
	Height   int
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe executes ffprobe against the provided path and extracts the details
// of its first video stream. Files without a video stream are rejected.
func Probe(ctx context.Context, binary, path string) (Details, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Details{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Details{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return Details{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	for _, stream := range result.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		fps := parseFrameRate(stream.AvgFrameRate)
		if fps == 0 {
			fps = parseFrameRate(stream.RFrameRate)
		}
		return Details{
			Duration: parseSeconds(result.Format.Duration),
			FPS:      fps,
			Width:    stream.Width,
			Height:   stream.Height,
		}, nil
	}
	return Details{}, fmt.Errorf("no video stream in %s", path)
}

// DefaultSubtitleArea returns the bottom quarter of the frame, where burned-in
// subtitles conventionally sit.
func DefaultSubtitleArea(width, height int) image.Rectangle {
	return image.Rect(0, height*3/4, width, height)
}

// parseFrameRate converts ffprobe's fractional rate ("24000/1001") to a float.
func parseFrameRate(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "0/0" {
		return 0
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		return parseSeconds(value)
	}
	n, errN := strconv.ParseFloat(num, 64)
	d, errD := strconv.ParseFloat(den, 64)
	if errN != nil || errD != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
