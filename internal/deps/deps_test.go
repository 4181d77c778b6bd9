package deps

import (
	"os"
	"path/filepath"
	"testing"

	"hardsub/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "   "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Available {
		t.Fatalf("expected unconfigured command to be unavailable")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[2].Detail)
	}
}

func TestDefaultRequirementsFollowEngine(t *testing.T) {
	cfg := config.Default()

	names := func(reqs []Requirement) []string {
		out := make([]string, 0, len(reqs))
		for _, req := range reqs {
			out = append(out, req.Name)
		}
		return out
	}

	reqs := Default(&cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %v", names(reqs))
	}
	if reqs[2].Name != "Tesseract" {
		t.Fatalf("expected tesseract requirement, got %v", names(reqs))
	}

	cfg.OCR.Engine = config.EnginePaddle
	cfg.OCR.PaddleCommand = "paddleocr-helper"
	reqs = Default(&cfg)
	if reqs[2].Name != "PaddleOCR helper" {
		t.Fatalf("expected paddle requirement, got %v", names(reqs))
	}
	if reqs[2].Command != "paddleocr-helper" {
		t.Fatalf("unexpected paddle command: %s", reqs[2].Command)
	}

	cfg.OCR.PaddleCommand = "python3 paddle_helper.py --flagged"
	reqs = Default(&cfg)
	if reqs[2].Command != "python3" {
		t.Fatalf("expected leading word of helper command, got %q", reqs[2].Command)
	}
}

func TestPaddleHelperWithArgumentsResolves(t *testing.T) {
	binDir := t.TempDir()
	for _, name := range []string{"python3", "ffmpeg", "ffprobe"} {
		stub := filepath.Join(binDir, name)
		if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	cfg.OCR.Engine = config.EnginePaddle
	cfg.OCR.PaddleCommand = "python3 paddle_helper.py"

	statuses := CheckBinaries(Default(&cfg))
	if missing := MissingRequired(statuses); len(missing) != 0 {
		t.Fatalf("multi-word helper reported missing: %v", missing)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false},
		{Name: "C", Available: false, Optional: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "B" {
		t.Fatalf("MissingRequired = %v, want [B]", missing)
	}
}
