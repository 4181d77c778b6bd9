// Package config loads, normalizes, and validates hardsub configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and rejects invalid settings before any
// frame is processed. The Config type centralizes every knob the CLI and the
// extraction pipeline need: sampling interval, subtitle area, OCR engine
// selection, and the synthesis thresholds that govern cue reconstruction.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
