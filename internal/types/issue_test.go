package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_JSONRoundTrip(t *testing.T) {
	issue := Issue{
		Description: "Subject was not informed of risks",
		QuotedText:  "subject",
		Offset:      Offset{Start: 4, End: 11},
		Severity:    SeverityViolation,
	}

	jsonBytes, err := json.Marshal(issue)
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"quoted_text":"subject"`)
	assert.Contains(t, string(jsonBytes), `"offset":{"start":4,"end":11}`)
	assert.Contains(t, string(jsonBytes), `"severity":"violation"`)

	var decoded Issue
	err = json.Unmarshal(jsonBytes, &decoded)
	require.NoError(t, err)
	assert.Equal(t, issue, decoded)
}

func TestIssue_SeverityOmittedWhenEmpty(t *testing.T) {
	issue := Issue{
		Description: "Missing consent language",
		QuotedText:  "consent",
		Offset:      Offset{Start: 0, End: 7},
	}

	jsonBytes, err := json.Marshal(issue)
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "severity")

	var decoded Issue
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Empty(t, decoded.Severity)
}

func TestIssue_ValidateAgainst(t *testing.T) {
	content := "The subject was not informed of risks."

	tests := []struct {
		name    string
		issue   Issue
		wantErr bool
	}{
		{
			name:  "valid offset and quote",
			issue: Issue{QuotedText: "subject", Offset: Offset{Start: 4, End: 11}},
		},
		{
			name:    "end past content length",
			issue:   Issue{QuotedText: "risks.", Offset: Offset{Start: 4, End: len(content) + 5}},
			wantErr: true,
		},
		{
			name:    "negative start",
			issue:   Issue{QuotedText: "The", Offset: Offset{Start: -1, End: 3}},
			wantErr: true,
		},
		{
			name:    "empty range",
			issue:   Issue{QuotedText: "", Offset: Offset{Start: 4, End: 4}},
			wantErr: true,
		},
		{
			name:    "quote mismatch",
			issue:   Issue{QuotedText: "Subject", Offset: Offset{Start: 4, End: 11}},
			wantErr: true,
		},
		{
			name:  "range covering full content",
			issue: Issue{QuotedText: content, Offset: Offset{Start: 0, End: len(content)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issue.ValidateAgainst(content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIssueList_Sort(t *testing.T) {
	list := IssueList{
		{Description: "b", QuotedText: "x", Offset: Offset{Start: 10, End: 12}},
		{Description: "a", QuotedText: "x", Offset: Offset{Start: 10, End: 12}},
		{Description: "c", QuotedText: "xy", Offset: Offset{Start: 10, End: 20}},
		{Description: "d", QuotedText: "q", Offset: Offset{Start: 2, End: 4}},
	}

	list.Sort()

	// Ascending start, longer range first on ties, then description.
	assert.Equal(t, "d", list[0].Description)
	assert.Equal(t, "c", list[1].Description)
	assert.Equal(t, "a", list[2].Description)
	assert.Equal(t, "b", list[3].Description)
}

func TestIssueList_Dedupe(t *testing.T) {
	list := IssueList{
		{Description: "dup", Offset: Offset{Start: 1, End: 5}},
		{Description: "dup", Offset: Offset{Start: 1, End: 5}},
		{Description: "dup", Offset: Offset{Start: 1, End: 6}},
		{Description: "other", Offset: Offset{Start: 1, End: 5}},
	}

	out := list.Dedupe()
	require.Len(t, out, 3)
	assert.Equal(t, "dup", out[0].Description)
	assert.Equal(t, 5, out[0].Offset.End)
	assert.Equal(t, 6, out[1].Offset.End)
	assert.Equal(t, "other", out[2].Description)
}

func TestValidSeverity(t *testing.T) {
	assert.True(t, ValidSeverity(""))
	assert.True(t, ValidSeverity(SeverityInfo))
	assert.True(t, ValidSeverity(SeverityWarning))
	assert.True(t, ValidSeverity(SeverityViolation))
	assert.False(t, ValidSeverity("critical"))
}
