package ocrcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"hardsub/internal/ocr"
)

//go:embed schema.sql
var schemaSQL string

// fingerprintSampleSize bounds how much of the video file is hashed.
const fingerprintSampleSize = 64 * 1024

// Store manages detection persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Stats summarizes cache contents.
type Stats struct {
	Entries      int64
	Fingerprints int64
	SizeBytes    int64
}

// Open initializes or connects to the detection cache at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached detections for a frame, if present.
func (s *Store) Get(ctx context.Context, fingerprint string, tsMillis int64, engine string) ([]ocr.Detection, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM detections WHERE fingerprint = ? AND ts_ms = ? AND engine = ?",
		fingerprint, tsMillis, engine,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query detections: %w", err)
	}

	var detections []ocr.Detection
	if err := json.Unmarshal([]byte(payload), &detections); err != nil {
		return nil, false, fmt.Errorf("decode detections: %w", err)
	}
	return detections, true, nil
}

// Put stores the detections for a frame, replacing any existing entry.
func (s *Store) Put(ctx context.Context, fingerprint string, tsMillis int64, engine string, detections []ocr.Detection) error {
	payload, err := json.Marshal(detections)
	if err != nil {
		return fmt.Errorf("encode detections: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO detections (fingerprint, ts_ms, engine, payload, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		fingerprint, tsMillis, engine, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert detections: %w", err)
	}
	return nil
}

// Stats reports entry counts and on-disk size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT fingerprint) FROM detections",
	).Scan(&stats.Entries, &stats.Fingerprints)
	if err != nil {
		return Stats{}, fmt.Errorf("count detections: %w", err)
	}

	if info, statErr := os.Stat(s.path); statErr == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// Clear deletes all cached detections.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM detections"); err != nil {
		return fmt.Errorf("clear detections: %w", err)
	}
	return nil
}

// Fingerprint derives a stable identifier for a video file from its size,
// modification time, and a hash of its leading bytes. Re-encoding the file
// or replacing it in place invalidates cached detections.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat video: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.CopyN(hasher, file, fingerprintSampleSize); err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("hash video: %w", err)
	}
	fmt.Fprintf(hasher, "%d:%d", info.Size(), info.ModTime().UnixNano())

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
