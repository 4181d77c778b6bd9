// Package extractor drives the full subtitle extraction pipeline: frame
// sampling, OCR, detection normalization, cue synthesis, and SRT output.
// A run holds an exclusive lock on the work directory so concurrent
// invocations do not trample each other's frames.
package extractor
