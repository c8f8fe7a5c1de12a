package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsight/compliance-review/internal/types"
)

func TestDecodeIssueList(t *testing.T) {
	raw := `{
		"issues": [
			{
				"description": "Subject not informed of risks",
				"quoted_text": "subject",
				"offset": {"start": 4, "end": 11},
				"severity": "violation"
			}
		]
	}`

	issues, err := decodeIssueList("gemini", raw)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "subject", issues[0].QuotedText)
	assert.Equal(t, types.Offset{Start: 4, End: 11}, issues[0].Offset)
	assert.Equal(t, types.SeverityViolation, issues[0].Severity)
}

func TestDecodeIssueList_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"issues\": []}\n```"

	issues, err := decodeIssueList("gemini", raw)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDecodeIssueList_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"only fences", "```json\n```"},
		{"not JSON", "the document looks fine to me"},
		{"wrong shape", `{"findings": []}`},
		{"missing offset", `{"issues": [{"description": "x", "quoted_text": "y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeIssueList("azure", tt.raw)
			require.Error(t, err)

			var rejected *UpstreamRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, "azure", rejected.Provider)
		})
	}
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"issues":[]}`, cleanJSONBlock("```json\n{\"issues\":[]}\n```"))
	assert.Equal(t, `{"issues":[]}`, cleanJSONBlock("```\n{\"issues\":[]}\n```"))
	assert.Equal(t, `{"issues":[]}`, cleanJSONBlock(`  {"issues":[]}  `))
}
