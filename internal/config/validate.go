package config

import (
	"errors"
	"fmt"

	"hardsub/internal/services"
)

// Validate ensures the configuration is usable. Violations are reported as
// configuration errors before any frame is processed.
func (c *Config) Validate() error {
	if err := c.validateExtraction(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "", "", err)
	}
	if err := c.validateOCR(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "", "", err)
	}
	if err := c.validateSynthesis(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "", "", err)
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if c.Extraction.SampleInterval <= 0 {
		return errors.New("extraction.sample_interval must be greater than 0")
	}
	switch len(c.Extraction.Area) {
	case 0:
	case 4:
		area := c.Extraction.Area
		if area[0] < 0 || area[1] < 0 {
			return errors.New("extraction.area coordinates must not be negative")
		}
		if area[0] >= area[2] || area[1] >= area[3] {
			return errors.New("extraction.area must satisfy x1 < x2 and y1 < y2")
		}
	default:
		return fmt.Errorf("extraction.area must have 4 values [x1, y1, x2, y2], got %d", len(c.Extraction.Area))
	}
	return nil
}

func (c *Config) validateOCR() error {
	switch c.OCR.Engine {
	case EngineTesseract:
	case EnginePaddle:
		if c.OCR.PaddleCommand == "" {
			return errors.New("ocr.paddle_command must be set when ocr.engine is \"paddle\"")
		}
	default:
		return fmt.Errorf("ocr.engine must be \"tesseract\" or \"paddle\", got %q", c.OCR.Engine)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return errors.New("ocr.min_confidence must be between 0 and 1")
	}
	if c.OCR.MaxWorkers < 1 {
		return errors.New("ocr.max_workers must be at least 1")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	s := c.Synthesis
	if s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return errors.New("synthesis.similarity_threshold must be between 0 and 1")
	}
	switch s.SimilarityMetric {
	case "levenshtein", "tokens":
	default:
		return fmt.Errorf("synthesis.similarity_metric must be \"levenshtein\" or \"tokens\", got %q", s.SimilarityMetric)
	}
	if s.MaxGap <= 0 {
		return errors.New("synthesis.max_gap must be greater than 0")
	}
	if s.MinCueDuration <= 0 {
		return errors.New("synthesis.min_cue_duration must be greater than 0")
	}
	if s.MinTextLength < 1 {
		return errors.New("synthesis.min_text_length must be at least 1")
	}
	if s.MaxTextLength < s.MinTextLength {
		return errors.New("synthesis.max_text_length must not be less than min_text_length")
	}
	return nil
}
