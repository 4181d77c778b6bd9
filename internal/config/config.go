package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkDir holds sampled frames, the run lock, and the detection cache.
	WorkDir string `toml:"work_dir"`
	// OutputDir receives generated subtitle files. Empty writes next to the video.
	OutputDir string `toml:"output_dir"`
}

// Extraction contains frame sampling configuration.
type Extraction struct {
	// SampleInterval is the number of seconds between sampled frames.
	SampleInterval float64 `toml:"sample_interval"`
	// Area is the subtitle region of interest as [x1, y1, x2, y2] pixel
	// coordinates. Empty selects the bottom quarter of the frame.
	Area    []int  `toml:"area"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Supported OCR engines.
const (
	EngineTesseract = "tesseract"
	EnginePaddle    = "paddle"
)

// OCR contains text detection configuration.
type OCR struct {
	// Engine selects the detector backend: "tesseract" or "paddle".
	Engine   string `toml:"engine"`
	Language string `toml:"language"`
	// PaddleCommand is the helper command invoked per frame when the paddle
	// engine is selected. The frame path is appended as the final argument.
	PaddleCommand string  `toml:"paddle_command"`
	MinConfidence float64 `toml:"min_confidence"`
	MaxWorkers    int     `toml:"max_workers"`
	CacheEnabled  bool    `toml:"cache_enabled"`
}

// Synthesis contains cue reconstruction thresholds.
type Synthesis struct {
	// SimilarityThreshold is the score at or above which an observation
	// continues the open cue rather than starting a new one.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	// SimilarityMetric selects the comparison: "levenshtein" or "tokens".
	SimilarityMetric string `toml:"similarity_metric"`
	// MaxGap is the longest silence, in seconds, an open cue survives.
	MaxGap float64 `toml:"max_gap"`
	// MinCueDuration is the readability floor applied to emitted cues.
	MinCueDuration float64 `toml:"min_cue_duration"`
	MinTextLength  int     `toml:"min_text_length"`
	MaxTextLength  int     `toml:"max_text_length"`
	// DiscardCharacters lists runes stripped from detected text before
	// normalization (stray punctuation artifacts common in OCR noise).
	DiscardCharacters string `toml:"discard_characters"`
}

// Output contains result handling configuration.
type Output struct {
	// KeepPartial writes whatever cues were synthesized before an upstream
	// failure instead of discarding them.
	KeepPartial bool `toml:"keep_partial"`
	// KeepWorkDir preserves sampled frames after the run for inspection.
	KeepWorkDir bool `toml:"keep_work_dir"`
}

// Config encapsulates all configuration values for hardsub.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	Paths      Paths      `toml:"paths"`
	Extraction Extraction `toml:"extraction"`
	OCR        OCR        `toml:"ocr"`
	Synthesis  Synthesis  `toml:"synthesis"`
	Output     Output     `toml:"output"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hardsub/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hardsub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work directory tree.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.WorkDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.WorkDir, err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if err := os.MkdirAll(c.Paths.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Paths.OutputDir, err)
		}
	}
	return nil
}

// CachePath returns the location of the detection cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.WorkDir, "detections.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkDir, "hardsub.lock")
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading tilde and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
