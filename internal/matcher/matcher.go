package matcher

import (
	"log"

	"github.com/clinsight/compliance-review/internal/catalogue"
	"github.com/clinsight/compliance-review/internal/types"
)

// Matcher scores documents against the reference catalogue. It precomputes a
// term-frequency vector per reference at construction time and performs no
// I/O afterwards, so a single Matcher is safe for concurrent use.
type Matcher struct {
	catalogue *catalogue.Catalogue
	vectors   []map[string]float64 // parallel to catalogue.References()
	minScore  float64
}

// New builds a matcher over the given catalogue with the given minimum
// similarity threshold.
func New(cat *catalogue.Catalogue, minScore float64) *Matcher {
	refs := cat.References()
	vectors := make([]map[string]float64, len(refs))
	for i, ref := range refs {
		vectors[i] = termFrequencies(tokenize(ref.Content))
	}
	return &Matcher{
		catalogue: cat,
		vectors:   vectors,
		minScore:  minScore,
	}
}

// Match returns the best-matching reference for the document and its
// similarity score, or ok=false when no reference scores above the threshold.
// Candidates are scored in catalogue order (ascending reference ID) and a
// strictly higher score is required to displace the current best, so ties
// resolve to the lexicographically smallest ID.
func (m *Matcher) Match(doc types.Document) (types.ComplianceReference, float64, bool) {
	if doc.Content == "" || m.catalogue.Len() == 0 {
		log.Printf("[matcher] document %s: no match (empty content or catalogue)", doc.ID)
		return types.ComplianceReference{}, 0, false
	}

	docVector := termFrequencies(tokenize(doc.Content))

	refs := m.catalogue.References()
	bestIdx := -1
	bestScore := 0.0
	for i := range refs {
		score := cosineSimilarity(docVector, m.vectors[i])
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < m.minScore {
		log.Printf("[matcher] document %s: no reference above threshold %.2f (best %.3f)",
			doc.ID, m.minScore, bestScore)
		return types.ComplianceReference{}, 0, false
	}

	log.Printf("[matcher] document %s: matched %s (score %.3f)", doc.ID, refs[bestIdx].ID, bestScore)
	return refs[bestIdx], bestScore, true
}
