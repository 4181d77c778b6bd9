package synth

import (
	"hardsub/internal/textutil"
)

// SimilarityFunc scores two normalized texts in [0, 1], where 1 means
// identical. Scores must decrease monotonically with divergence.
type SimilarityFunc func(a, b string) float64

// Metric names accepted by SimilarityByName.
const (
	MetricLevenshtein = "levenshtein"
	MetricTokens      = "tokens"
)

// SimilarityByName resolves a configured metric name to its function.
// Unknown names fall back to the Levenshtein ratio.
func SimilarityByName(name string) SimilarityFunc {
	switch name {
	case MetricTokens:
		return textutil.TokenSimilarity
	default:
		return textutil.LevenshteinRatio
	}
}

// Options configures event synthesis.
type Options struct {
	// SimilarityThreshold is the score at or above which an observation
	// continues the open cue.
	SimilarityThreshold float64
	// MaxGap is the longest stretch, in seconds, without a supporting
	// observation before the open cue closes.
	MaxGap float64
	// Similarity scores candidate text against the open cue's
	// representative. Nil selects the Levenshtein ratio.
	Similarity SimilarityFunc
}

func (o Options) similarity() SimilarityFunc {
	if o.Similarity != nil {
		return o.Similarity
	}
	return textutil.LevenshteinRatio
}

// variant is one distinct normalized text seen for the open cue, with its
// supporting count. Variants keep first-seen order so ties resolve
// deterministically.
type variant struct {
	text  string
	count int
}

// active is the in-progress cue being accumulated.
type active struct {
	start          float64
	lastSeen       float64
	representative string
	observations   int
	variants       []variant
}

// State is the synthesizer's accumulation state between inputs. The zero
// value is idle (no open cue).
type State struct {
	active *active
}

// Idle reports whether no cue is currently open.
func (s State) Idle() bool {
	return s.active == nil
}

// Step advances the state with the next observation and returns the new
// state plus the cue closed by this input, if any. Observations must arrive
// in non-decreasing timestamp order.
func Step(st State, opts Options, obs Observation) (State, *Cue) {
	cur := st.active
	if cur == nil {
		return State{active: open(obs)}, nil
	}

	gap := obs.Seconds - cur.lastSeen
	if gap > opts.MaxGap {
		// The caption vanished; whatever follows is a new event even if the
		// text happens to match.
		cue := cur.close()
		return State{active: open(obs)}, &cue
	}

	if opts.similarity()(obs.Text, cur.representative) >= opts.SimilarityThreshold {
		cur.extend(obs)
		return st, nil
	}

	// Caption change within the gap window.
	cue := cur.close()
	return State{active: open(obs)}, &cue
}

// Tick advances the state for a sampled timestamp that produced no
// observation. A sustained absence beyond MaxGap closes the open cue without
// waiting for rival text.
func Tick(st State, opts Options, seconds float64) (State, *Cue) {
	cur := st.active
	if cur == nil {
		return st, nil
	}
	if seconds-cur.lastSeen > opts.MaxGap {
		cue := cur.close()
		return State{}, &cue
	}
	return st, nil
}

// Flush closes any open cue at end of stream and returns the idle state.
// The emitted cue is marked Flushed to distinguish it from gap closures.
func Flush(st State) (State, *Cue) {
	if st.active == nil {
		return st, nil
	}
	cue := st.active.close()
	cue.Flushed = true
	return State{}, &cue
}

func open(obs Observation) *active {
	return &active{
		start:          obs.Seconds,
		lastSeen:       obs.Seconds,
		representative: obs.Text,
		observations:   1,
		variants:       []variant{{text: obs.Text, count: 1}},
	}
}

// extend records a continuation observation: the tally entry for this exact
// text grows and the representative is recomputed as the highest-count
// variant, first-seen winning ties.
func (a *active) extend(obs Observation) {
	if obs.Seconds > a.lastSeen {
		a.lastSeen = obs.Seconds
	}
	a.observations++

	found := false
	for i := range a.variants {
		if a.variants[i].text == obs.Text {
			a.variants[i].count++
			found = true
			break
		}
	}
	if !found {
		a.variants = append(a.variants, variant{text: obs.Text, count: 1})
	}

	best := a.variants[0]
	for _, v := range a.variants[1:] {
		if v.count > best.count {
			best = v
		}
	}
	a.representative = best.text
}

func (a *active) close() Cue {
	return Cue{
		Start:        a.start,
		End:          a.lastSeen,
		Text:         a.representative,
		Observations: a.observations,
	}
}

// Synthesizer is a convenience wrapper that owns a State and collects the
// cues it emits.
type Synthesizer struct {
	opts  Options
	state State
	cues  []Cue
}

// NewSynthesizer creates a Synthesizer with the given options.
func NewSynthesizer(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts}
}

// Observe feeds the next observation.
func (s *Synthesizer) Observe(obs Observation) {
	next, cue := Step(s.state, s.opts, obs)
	s.state = next
	if cue != nil {
		s.cues = append(s.cues, *cue)
	}
}

// Tick reports a sampled timestamp with no surviving text.
func (s *Synthesizer) Tick(seconds float64) {
	next, cue := Tick(s.state, s.opts, seconds)
	s.state = next
	if cue != nil {
		s.cues = append(s.cues, *cue)
	}
}

// Flush closes any open cue. Call once after the last input; a flushed
// synthesizer may keep receiving input afterwards, which simply opens a new
// cue.
func (s *Synthesizer) Flush() {
	next, cue := Flush(s.state)
	s.state = next
	if cue != nil {
		s.cues = append(s.cues, *cue)
	}
}

// Cues returns the cues emitted so far, in timestamp order.
func (s *Synthesizer) Cues() []Cue {
	return s.cues
}
