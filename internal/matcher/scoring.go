// Package matcher selects the best-matching compliance reference for a
// clinical document from the in-process catalogue.
package matcher

import (
	"math"
	"strings"
	"unicode"
)

// tokenize lowercases text and splits it into word tokens, dropping anything
// shorter than two runes. Punctuation and digits separate tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// termFrequencies builds a normalized term-frequency vector for the tokens.
func termFrequencies(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	for tok := range freq {
		freq[tok] /= float64(len(tokens))
	}
	return freq
}

// cosineSimilarity computes the cosine of the angle between two
// term-frequency vectors. Result is in [0, 1]; empty vectors score 0.
func cosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Iterate the smaller map for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}

	dot := 0.0
	for tok, av := range a {
		if bv, ok := b[tok]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0.0
	}

	normA := 0.0
	for _, v := range a {
		normA += v * v
	}
	normB := 0.0
	for _, v := range b {
		normB += v * v
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score > 1.0 {
		score = 1.0 // guard against float drift
	}
	return score
}
