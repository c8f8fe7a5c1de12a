package provider

import (
	"encoding/json"
	"strings"

	"github.com/clinsight/compliance-review/internal/schemas"
	"github.com/clinsight/compliance-review/internal/types"
)

// issueListPayload is the wire shape providers are instructed to return.
type issueListPayload struct {
	Issues []types.Issue `json:"issues"`
}

// decodeIssueList turns a provider's raw text response into issues. The text
// is stripped of markdown fences, schema-validated, then unmarshalled. Any
// failure is an UpstreamRejectedError attributed to the named provider.
func decodeIssueList(providerName, raw string) ([]types.Issue, error) {
	cleaned := cleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &UpstreamRejectedError{Provider: providerName, Reason: "empty response"}
	}

	if err := schemas.ValidateIssueList(cleaned); err != nil {
		return nil, &UpstreamRejectedError{Provider: providerName, Reason: "response failed schema validation", Err: err}
	}

	var payload issueListPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &UpstreamRejectedError{Provider: providerName, Reason: "response is not valid JSON", Err: err}
	}

	return payload.Issues, nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
