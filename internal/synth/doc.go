// Package synth reconstructs subtitle cues from noisy per-frame OCR output.
//
// The pipeline feeding it produces one set of raw detections per sampled
// frame. The Normalizer reduces each set to at most one Observation; the
// Synthesizer consumes Observations (and empty ticks for frames without
// text) in timestamp order and groups them into cues, absorbing OCR jitter
// by text similarity and choosing each cue's final text by majority vote
// over the variants seen. A post-processing pass drops single-frame flicker,
// merges near-miss duplicates, and enforces a readability duration floor.
//
// Synthesis is expressed as pure transitions over an explicit State value,
// so a cue sequence can be replayed deterministically from the same
// observation stream.
package synth
