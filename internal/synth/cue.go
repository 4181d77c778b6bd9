package synth

import "image"

// Observation is one normalized candidate subtitle line at one sampled
// timestamp. Immutable once created.
type Observation struct {
	// Seconds is the sampled frame's position in the source video.
	Seconds float64
	// Text is the normalized caption text.
	Text string
	// Box bounds the detected text within the frame or ROI crop.
	Box image.Rectangle
	// Confidence is the lowest confidence among the detections merged into
	// this observation.
	Confidence float64
}

// Cue is a finalized subtitle event. Emitted cues are strictly time-ordered
// and non-overlapping.
type Cue struct {
	// Start and End delimit the cue in seconds, Start <= End.
	Start float64
	End   float64
	// Text is the representative caption chosen by majority vote over the
	// supporting observations' variants.
	Text string
	// Observations counts the frames that supported this cue.
	Observations int
	// Flushed reports the cue was closed by end of stream rather than by a
	// gap, an empty-frame timeout, or a caption change. Post-processing
	// treats a flushed single-observation cue as a caption cut short by the
	// end of sampling, not flicker.
	Flushed bool
}

// Duration returns the cue's measured length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}
