package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	} else {
		c.Paths.OutputDir = ""
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	if strings.TrimSpace(c.Extraction.FFmpeg) == "" {
		c.Extraction.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Extraction.FFprobe) == "" {
		c.Extraction.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeOCR() error {
	c.OCR.Engine = strings.ToLower(strings.TrimSpace(c.OCR.Engine))
	if c.OCR.Engine == "" {
		c.OCR.Engine = defaultOCREngine
	}
	lang, err := normalizeLanguageTag(c.OCR.Language)
	if err != nil {
		return fmt.Errorf("ocr.language: %w", err)
	}
	c.OCR.Language = lang
	c.OCR.PaddleCommand = strings.TrimSpace(c.OCR.PaddleCommand)
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.SimilarityMetric = strings.ToLower(strings.TrimSpace(c.Synthesis.SimilarityMetric))
	if c.Synthesis.SimilarityMetric == "" {
		c.Synthesis.SimilarityMetric = defaultSimilarityMetric
	}
}

// normalizeLanguageTag validates an OCR language identifier. Engine-specific
// pack names such as "chi_sim" keep their suffix; the base subtag must be a
// well-formed BCP-47 language code.
func normalizeLanguageTag(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return defaultOCRLanguage, nil
	}
	base, _, _ := strings.Cut(value, "_")
	if _, err := language.Parse(base); err != nil {
		// ValueError means well-formed but unknown to the registry, which
		// engine-specific codes can legitimately be.
		var verr language.ValueError
		if !errors.As(err, &verr) {
			return "", fmt.Errorf("invalid language %q: %w", value, err)
		}
	}
	return value, nil
}
