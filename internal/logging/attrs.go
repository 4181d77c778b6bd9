package logging

import (
	"log/slog"
	"time"
)

// Standardized structured logging field names.
const (
	// FieldComponent identifies the pipeline component emitting the record.
	FieldComponent = "component"
	// FieldRunID identifies a single extraction run.
	FieldRunID = "run_id"
	// FieldStage identifies the pipeline stage (sample, detect, synthesize, write).
	FieldStage = "stage"
	// FieldVideo identifies the source video path.
	FieldVideo = "video"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts typed attrs to the variadic any form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
