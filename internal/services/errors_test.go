package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(ErrExternalTool, "sample", "ffmpeg", "frame extraction", base)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "ocr", "detect", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}

func TestWrapDetail(t *testing.T) {
	tests := []struct {
		name      string
		stage     string
		operation string
		message   string
		want      string
	}{
		{"all parts", "synth", "flush", "partial result", "synth: flush: partial result"},
		{"stage only", "probe", "", "", "probe"},
		{"empty", "", "", "", "service failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(ErrValidation, tt.stage, tt.operation, tt.message, nil)
			want := "validation error: " + tt.want
			if err.Error() != want {
				t.Errorf("Wrap() = %q, want %q", err.Error(), want)
			}
		})
	}
}
