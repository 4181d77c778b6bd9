package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hardsub/internal/services"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero sample interval",
			mutate: func(c *Config) { c.Extraction.SampleInterval = 0 },
			want:   "sample_interval",
		},
		{
			name:   "area wrong length",
			mutate: func(c *Config) { c.Extraction.Area = []int{0, 810} },
			want:   "extraction.area",
		},
		{
			name:   "area inverted",
			mutate: func(c *Config) { c.Extraction.Area = []int{100, 900, 100, 1080} },
			want:   "x1 < x2",
		},
		{
			name:   "unknown engine",
			mutate: func(c *Config) { c.OCR.Engine = "easyocr" },
			want:   "ocr.engine",
		},
		{
			name:   "paddle without command",
			mutate: func(c *Config) { c.OCR.Engine = "paddle" },
			want:   "paddle_command",
		},
		{
			name:   "confidence out of range",
			mutate: func(c *Config) { c.OCR.MinConfidence = 1.2 },
			want:   "min_confidence",
		},
		{
			name:   "zero workers",
			mutate: func(c *Config) { c.OCR.MaxWorkers = 0 },
			want:   "max_workers",
		},
		{
			name:   "similarity threshold out of range",
			mutate: func(c *Config) { c.Synthesis.SimilarityThreshold = 1.5 },
			want:   "similarity_threshold",
		},
		{
			name:   "unknown metric",
			mutate: func(c *Config) { c.Synthesis.SimilarityMetric = "phonetic" },
			want:   "similarity_metric",
		},
		{
			name:   "non-positive max gap",
			mutate: func(c *Config) { c.Synthesis.MaxGap = 0 },
			want:   "max_gap",
		},
		{
			name:   "non-positive cue floor",
			mutate: func(c *Config) { c.Synthesis.MinCueDuration = 0 },
			want:   "min_cue_duration",
		},
		{
			name:   "max text below min",
			mutate: func(c *Config) { c.Synthesis.MinTextLength = 10; c.Synthesis.MaxTextLength = 5 },
			want:   "max_text_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Errorf("expected configuration error marker, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
log_level = "debug"

[extraction]
sample_interval = 1.0
area = [0, 810, 1920, 1080]

[synthesis]
similarity_threshold = 0.65
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Extraction.SampleInterval != 1.0 {
		t.Errorf("SampleInterval = %v, want 1.0", cfg.Extraction.SampleInterval)
	}
	if cfg.Synthesis.SimilarityThreshold != 0.65 {
		t.Errorf("SimilarityThreshold = %v, want 0.65", cfg.Synthesis.SimilarityThreshold)
	}
	// Unset fields keep defaults.
	if cfg.OCR.Engine != "tesseract" {
		t.Errorf("Engine = %q, want tesseract default", cfg.OCR.Engine)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false")
	}
	if cfg.Extraction.SampleInterval != defaultSampleInterval {
		t.Errorf("SampleInterval = %v, want default", cfg.Extraction.SampleInterval)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[synthesis]
similarity_threshold = 2.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestNormalizeLanguageTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty uses default", "", "eng", false},
		{"iso639-3 passthrough", "eng", "eng", false},
		{"tesseract pack name", "chi_sim", "chi_sim", false},
		{"uppercase lowered", "ENG", "eng", false},
		{"garbage rejected", "not a language!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeLanguageTag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeLanguageTag(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeLanguageTag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[synthesis]") {
		t.Error("sample config missing synthesis section")
	}
}
