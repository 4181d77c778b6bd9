package ocrcache

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"hardsub/internal/ocr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "detections.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	detections := []ocr.Detection{
		{Text: "Hello", Box: image.Rect(10, 20, 110, 40), Confidence: 0.94},
		{Text: "world", Box: image.Rect(10, 50, 90, 70), Confidence: 0.81},
	}
	if err := store.Put(ctx, "fp-1", 1500, "tesseract", detections); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "fp-1", 1500, "tesseract")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("got %d detections, want 2", len(got))
	}
	if got[0].Text != "Hello" || got[0].Box != image.Rect(10, 20, 110, 40) || got[0].Confidence != 0.94 {
		t.Errorf("detection mismatch: %+v", got[0])
	}
}

func TestStoreMiss(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "unknown", 0, "tesseract"); err != nil || ok {
		t.Fatalf("Get = ok=%v err=%v, want miss", ok, err)
	}
}

func TestStoreKeyedByEngine(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "fp-1", 500, "tesseract", []ocr.Detection{{Text: "a", Confidence: 1}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := store.Get(ctx, "fp-1", 500, "paddle"); err != nil || ok {
		t.Fatalf("Get with other engine = ok=%v err=%v, want miss", ok, err)
	}
}

func TestStoreEmptyDetections(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// A frame with no text is still a cacheable result.
	if err := store.Put(ctx, "fp-1", 2000, "tesseract", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, "fp-1", 2000, "tesseract")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 0 {
		t.Fatalf("got %d detections, want 0", len(got))
	}
}

func TestStoreStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		if err := store.Put(ctx, "fp-1", i*500, "tesseract", nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Put(ctx, "fp-2", 0, "tesseract", nil); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 4 {
		t.Errorf("Entries = %d, want 4", stats.Entries)
	}
	if stats.Fingerprints != 2 {
		t.Errorf("Fingerprints = %d, want 2", stats.Fingerprints)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 {
		t.Errorf("Entries after clear = %d, want 0", stats.Entries)
	}
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mkv")
	if err := os.WriteFile(path, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	again, err := Fingerprint(path)
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Error("fingerprint not stable across calls")
	}

	other := filepath.Join(dir, "other.mkv")
	if err := os.WriteFile(other, []byte("different contents here"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := Fingerprint(other)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("distinct files produced the same fingerprint")
	}
}
