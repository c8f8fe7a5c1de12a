package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsight/compliance-review/internal/catalogue"
	"github.com/clinsight/compliance-review/internal/types"
)

func buildCatalogue(t *testing.T, refs ...types.ComplianceReference) *catalogue.Catalogue {
	t.Helper()
	cat, err := catalogue.New(refs)
	require.NoError(t, err)
	return cat
}

func TestMatch_PicksBestReference(t *testing.T) {
	cat := buildCatalogue(t,
		types.ComplianceReference{
			ID:      "ref-icf-01",
			Content: "Subjects must be informed of all foreseeable risks before enrollment. Informed consent is required.",
		},
		types.ComplianceReference{
			ID:      "ref-lab-01",
			Content: "Laboratory samples must be stored at controlled temperatures and labelled correctly.",
		},
	)
	m := New(cat, 0.1)

	doc := types.Document{
		ID:      "d1",
		Content: "The subject was not informed of risks before enrollment in the study.",
	}

	ref, score, ok := m.Match(doc)
	require.True(t, ok)
	assert.Equal(t, "ref-icf-01", ref.ID)
	assert.Greater(t, score, 0.1)
}

func TestMatch_Deterministic(t *testing.T) {
	cat := buildCatalogue(t,
		types.ComplianceReference{ID: "ref-a", Content: "informed consent risks enrollment"},
		types.ComplianceReference{ID: "ref-b", Content: "sample storage temperature labels"},
	)
	m := New(cat, 0.05)
	doc := types.Document{ID: "d1", Content: "informed consent and risks"}

	first, firstScore, ok := m.Match(doc)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		ref, score, ok := m.Match(doc)
		require.True(t, ok)
		assert.Equal(t, first.ID, ref.ID)
		assert.Equal(t, firstScore, score)
	}
}

func TestMatch_TieBreaksOnSmallestID(t *testing.T) {
	// Identical content guarantees identical scores.
	cat := buildCatalogue(t,
		types.ComplianceReference{ID: "ref-b", Content: "informed consent risks"},
		types.ComplianceReference{ID: "ref-a", Content: "informed consent risks"},
	)
	m := New(cat, 0.05)

	ref, _, ok := m.Match(types.Document{ID: "d1", Content: "informed consent risks"})
	require.True(t, ok)
	assert.Equal(t, "ref-a", ref.ID)
}

func TestMatch_EmptyContent(t *testing.T) {
	cat := buildCatalogue(t, types.ComplianceReference{ID: "ref-a", Content: "anything"})
	m := New(cat, 0.1)

	_, _, ok := m.Match(types.Document{ID: "d1", Content: ""})
	assert.False(t, ok)
}

func TestMatch_EmptyCatalogue(t *testing.T) {
	m := New(buildCatalogue(t), 0.1)

	_, _, ok := m.Match(types.Document{ID: "d1", Content: "informed consent"})
	assert.False(t, ok)
}

func TestMatch_BelowThreshold(t *testing.T) {
	cat := buildCatalogue(t, types.ComplianceReference{ID: "ref-a", Content: "temperature storage labelling"})
	m := New(cat, 0.9)

	_, _, ok := m.Match(types.Document{ID: "d1", Content: "completely unrelated narrative text"})
	assert.False(t, ok)
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("The Subject, was NOT informed! (risks)")
	assert.Equal(t, []string{"the", "subject", "was", "not", "informed", "risks"}, tokens)
}

func TestTokenize_DropsShortAndNonLetter(t *testing.T) {
	tokens := tokenize("a b2c 42 ok")
	assert.Equal(t, []string{"ok"}, tokens)
}

func TestCosineSimilarity(t *testing.T) {
	a := termFrequencies([]string{"informed", "consent", "risks"})
	b := termFrequencies([]string{"informed", "consent", "risks"})
	c := termFrequencies([]string{"storage", "temperature"})

	assert.InDelta(t, 1.0, cosineSimilarity(a, b), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity(a, c))
	assert.Equal(t, 0.0, cosineSimilarity(nil, a))
}
