package synth

// PostProcessOptions configures the cleanup pass over emitted cues.
type PostProcessOptions struct {
	// MinCueDuration is the readability floor in seconds. Cues measuring
	// shorter are extended up to it where the next cue allows, except
	// single-observation flicker, which is dropped.
	MinCueDuration float64
	// MaxGap bounds the distance across which adjacent identical cues merge.
	MaxGap float64
}

// PostProcess cleans an emitted cue sequence: merges adjacent cues whose
// text is identical, rejects single-frame flicker, and enforces the
// duration floor. The input
// must be time-ordered; the output is time-ordered, non-overlapping, and
// every cue satisfies Start < End.
func PostProcess(cues []Cue, opts PostProcessOptions) []Cue {
	merged := mergeIdentical(cues, opts.MaxGap)
	return enforceDurations(merged, opts.MinCueDuration)
}

func mergeIdentical(cues []Cue, maxGap float64) []Cue {
	if len(cues) == 0 {
		return nil
	}
	out := make([]Cue, 0, len(cues))
	out = append(out, cues[0])
	for _, cue := range cues[1:] {
		last := &out[len(out)-1]
		if cue.Text == last.Text && cue.Start-last.End <= maxGap {
			last.End = cue.End
			last.Observations += cue.Observations
			last.Flushed = cue.Flushed
			continue
		}
		out = append(out, cue)
	}
	return out
}

// enforceDurations applies the floor. A sub-floor cue backed by a single
// observation is flicker and is dropped, unless it was closed by the flush:
// with no evidence the text vanished before sampling ended, it is kept and
// extended like any other short cue. A single-observation cue that a gap or
// empty-frame timeout closed is flicker even when it is the last cue emitted.
// Extension never overlaps the next cue; a cue that cannot reach the floor
// even after extension is dropped rather than emitted short.
func enforceDurations(cues []Cue, floor float64) []Cue {
	out := make([]Cue, 0, len(cues))
	for i, cue := range cues {
		if cue.Duration() >= floor {
			out = append(out, cue)
			continue
		}
		if cue.Observations <= 1 && !cue.Flushed {
			continue
		}
		end := cue.Start + floor
		if i < len(cues)-1 && end > cues[i+1].Start {
			end = cues[i+1].Start
		}
		if end-cue.Start < floor {
			continue
		}
		cue.End = end
		out = append(out, cue)
	}
	return out
}
