// Package deps verifies that the external binaries hardsub shells out to
// are present before a run starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hardsub/internal/config"
)

// Requirement defines an external dependency hardsub relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default returns the requirements for the configured toolchain. FFmpeg and
// FFprobe are always needed; the OCR requirement depends on the engine.
func Default(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.Extraction.FFmpeg, Description: "Samples frames from the video"},
		{Name: "FFprobe", Command: cfg.Extraction.FFprobe, Description: "Reads video duration and geometry"},
	}
	switch cfg.OCR.Engine {
	case config.EnginePaddle:
		// The helper may carry arguments ("python3 paddle_helper.py");
		// only the leading word is a binary to resolve.
		command := ""
		if fields := strings.Fields(cfg.OCR.PaddleCommand); len(fields) > 0 {
			command = fields[0]
		}
		reqs = append(reqs, Requirement{
			Name:        "PaddleOCR helper",
			Command:     command,
			Description: "Recognizes text in sampled frames",
		})
	default:
		reqs = append(reqs, Requirement{
			Name:        "Tesseract",
			Command:     "tesseract",
			Description: "Recognizes text in sampled frames (via libtesseract)",
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
