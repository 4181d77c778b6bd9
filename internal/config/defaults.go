package config

const (
	defaultWorkDir             = "~/.cache/hardsub"
	defaultLogLevel            = "info"
	defaultSampleInterval      = 0.5
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultOCREngine           = EngineTesseract
	defaultOCRLanguage         = "eng"
	defaultMinConfidence       = 0.6
	defaultMaxWorkers          = 4
	defaultSimilarityThreshold = 0.8
	defaultSimilarityMetric    = "levenshtein"
	defaultMaxGap              = 1.0
	defaultMinCueDuration      = 0.3
	defaultMinTextLength       = 1
	defaultMaxTextLength       = 120
	defaultDiscardCharacters   = "|`~¥^©®"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		LogLevel: defaultLogLevel,
		Paths: Paths{
			WorkDir: defaultWorkDir,
		},
		Extraction: Extraction{
			SampleInterval: defaultSampleInterval,
			FFmpeg:         defaultFFmpegBinary,
			FFprobe:        defaultFFprobeBinary,
		},
		OCR: OCR{
			Engine:        defaultOCREngine,
			Language:      defaultOCRLanguage,
			MinConfidence: defaultMinConfidence,
			MaxWorkers:    defaultMaxWorkers,
			CacheEnabled:  true,
		},
		Synthesis: Synthesis{
			SimilarityThreshold: defaultSimilarityThreshold,
			SimilarityMetric:    defaultSimilarityMetric,
			MaxGap:              defaultMaxGap,
			MinCueDuration:      defaultMinCueDuration,
			MinTextLength:       defaultMinTextLength,
			MaxTextLength:       defaultMaxTextLength,
			DiscardCharacters:   defaultDiscardCharacters,
		},
		Output: Output{
			KeepPartial: true,
		},
	}
}
