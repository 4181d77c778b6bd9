package textutil

import (
	"math"
	"regexp"
	"strings"
)

// LevenshteinRatio returns a similarity score in [0, 1] between two strings,
// computed as 1 - distance/maxLen over rune sequences. Identical strings
// score 1.0; strings sharing no runes score 0.0.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with a two-row matrix.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// tokenSplitPattern matches separator sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[\s\p{P}]+`)

// Tokenize splits text into lowercase tokens on whitespace and punctuation.
// Subtitle lines are short, so no minimum token length is enforced.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
	normSq float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var normSq float64
	for _, count := range counts {
		normSq += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(normSq),
		normSq: normSq,
	}
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm. Equal fingerprints
// score exactly 1; term counts are small integers so the dot product and the
// squared norms are exact, and equality of all three implies identical
// vectors, avoiding the sqrt rounding of the general case.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	if dot == a.normSq && dot == b.normSq {
		return 1
	}
	return dot / (a.norm * b.norm)
}

// TokenSimilarity compares two strings by their term-frequency fingerprints.
// Identical strings score exactly 1; strings that tokenize to nothing are
// treated as similar only to other empty strings.
func TokenSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	fa := NewFingerprint(a)
	fb := NewFingerprint(b)
	if fa == nil && fb == nil {
		return 1
	}
	return CosineSimilarity(fa, fb)
}
