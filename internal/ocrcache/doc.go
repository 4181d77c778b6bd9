// Package ocrcache persists per-frame OCR detections in SQLite so repeated
// runs over the same video skip the expensive recognition step. Entries are
// keyed by video fingerprint, frame timestamp, and OCR engine.
package ocrcache
