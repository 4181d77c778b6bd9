package synth

import "testing"

func TestFlickerRejection(t *testing.T) {
	// A single stray frame surrounded by long gaps on both sides must not
	// survive when its duration stays below the floor.
	s := NewSynthesizer(testOptions())
	s.Observe(obs(1.0, "Real caption"))
	s.Observe(obs(1.5, "Real caption"))
	s.Observe(obs(5.0, "g~litch"))
	s.Observe(obs(9.0, "Another real caption"))
	s.Observe(obs(9.5, "Another real caption"))
	s.Flush()

	cues := PostProcess(s.Cues(), PostProcessOptions{MinCueDuration: 0.5, MaxGap: 1.0})
	if len(cues) != 2 {
		t.Fatalf("expected flicker to be dropped, got %d cues: %+v", len(cues), cues)
	}
	for _, cue := range cues {
		if cue.Text == "g~litch" {
			t.Errorf("flicker cue survived: %+v", cue)
		}
	}
}

func TestMergeIdenticalAdjacentCues(t *testing.T) {
	cues := []Cue{
		{Start: 1.0, End: 2.0, Text: "Same text", Observations: 3},
		{Start: 2.5, End: 3.5, Text: "Same text", Observations: 2},
		{Start: 6.0, End: 7.0, Text: "Same text", Observations: 2},
	}
	got := PostProcess(cues, PostProcessOptions{MinCueDuration: 0.5, MaxGap: 1.0})
	if len(got) != 2 {
		t.Fatalf("expected near-miss merge, got %d cues: %+v", len(got), got)
	}
	if got[0].Start != 1.0 || got[0].End != 3.5 {
		t.Errorf("merged cue = %+v, want (1, 3.5)", got[0])
	}
	if got[0].Observations != 5 {
		t.Errorf("merged observations = %d, want 5", got[0].Observations)
	}
	// Third cue is beyond max_gap and stays separate.
	if got[1].Start != 6.0 {
		t.Errorf("distant cue merged: %+v", got[1])
	}
}

func TestFloorExtensionTruncatesBeforeNextCue(t *testing.T) {
	cues := []Cue{
		{Start: 1.0, End: 1.2, Text: "Short", Observations: 2},
		{Start: 1.5, End: 3.0, Text: "Follower", Observations: 4},
	}
	got := PostProcess(cues, PostProcessOptions{MinCueDuration: 1.0, MaxGap: 1.0})
	// The short cue cannot reach the 1.0s floor before the follower starts,
	// so it is dropped rather than emitted short or overlapping.
	if len(got) != 1 {
		t.Fatalf("expected unreachable floor to drop cue, got %+v", got)
	}
	if got[0].Text != "Follower" {
		t.Errorf("wrong survivor: %+v", got[0])
	}
}

func TestFloorExtensionWithinRoom(t *testing.T) {
	cues := []Cue{
		{Start: 1.0, End: 1.2, Text: "Short", Observations: 2},
		{Start: 4.0, End: 6.0, Text: "Follower", Observations: 4},
	}
	got := PostProcess(cues, PostProcessOptions{MinCueDuration: 0.8, MaxGap: 1.0})
	if len(got) != 2 {
		t.Fatalf("expected both cues, got %+v", got)
	}
	if got[0].End != 1.8 {
		t.Errorf("extended end = %v, want 1.8", got[0].End)
	}
	if got[0].End > got[1].Start {
		t.Error("extension overlapped the next cue")
	}
}

func TestFloorExtensionCapsAtNextStart(t *testing.T) {
	cues := []Cue{
		{Start: 1.0, End: 1.4, Text: "Short", Observations: 3},
		{Start: 1.6, End: 3.0, Text: "Follower", Observations: 4},
	}
	got := PostProcess(cues, PostProcessOptions{MinCueDuration: 0.6, MaxGap: 1.0})
	if len(got) != 2 {
		t.Fatalf("expected both cues, got %+v", got)
	}
	if got[0].End != 1.6 {
		t.Errorf("capped end = %v, want 1.6 (next cue start)", got[0].End)
	}
}

func TestPostProcessEmptyInput(t *testing.T) {
	if got := PostProcess(nil, PostProcessOptions{MinCueDuration: 0.5, MaxGap: 1.0}); len(got) != 0 {
		t.Fatalf("expected empty output, got %+v", got)
	}
}

func TestPostProcessKeepsFlushedSingleObservationCue(t *testing.T) {
	cues := []Cue{
		{Start: 5.0, End: 5.0, Text: "Next line", Observations: 1, Flushed: true},
	}
	got := PostProcess(cues, PostProcessOptions{MinCueDuration: 0.5, MaxGap: 1.0})
	if len(got) != 1 {
		t.Fatalf("expected flush-closed cue kept, got %+v", got)
	}
	if got[0].End != 5.5 {
		t.Errorf("end = %v, want floor extension to 5.5", got[0].End)
	}
}

func TestFlickerAtStreamTailDropped(t *testing.T) {
	// A one-frame stray as the last text seen, followed by empty frames past
	// the gap window, closes by timeout and must not survive as a cue.
	s := NewSynthesizer(testOptions())
	s.Observe(obs(1.0, "Real caption"))
	s.Observe(obs(1.5, "Real caption"))
	s.Observe(obs(5.0, "g~litch"))
	s.Tick(5.5)
	s.Tick(6.5)
	s.Tick(7.5)
	s.Flush()

	cues := PostProcess(s.Cues(), PostProcessOptions{MinCueDuration: 0.5, MaxGap: 1.0})
	if len(cues) != 1 {
		t.Fatalf("expected only the real caption, got %d cues: %+v", len(cues), cues)
	}
	if cues[0].Text != "Real caption" {
		t.Errorf("survivor = %+v", cues[0])
	}
}
