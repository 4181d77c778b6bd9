// Package textutil provides text processing utilities for subtitle
// reconstruction: OCR output normalization, tokenization, and similarity
// scoring.
//
// Two similarity metrics are offered. LevenshteinRatio compares rune
// sequences and suits scripts without word boundaries; TokenSimilarity
// compares term-frequency fingerprints and is cheaper on long lines. Both
// return 1.0 for identical text and decrease monotonically with divergence.
package textutil
