package provider

import (
	"fmt"
	"strings"

	"github.com/clinsight/compliance-review/internal/types"
)

// analysisPreamble describes the compliance-review task to the model.
const analysisPreamble = `You are an expert clinical compliance reviewer.
Your task is to compare a clinical document against a compliance reference and report every passage of the document that violates or falls short of the reference.
COPY TEXT VERBATIM: quoted_text must be an exact byte-for-byte substring of the document, with no paraphrasing, trimming, or whitespace changes.
Offsets are BYTE indices into the UTF-8 document text, half-open: content[start:end] == quoted_text.`

// BuildAnalysisPrompt constructs the provider prompt for one
// (document, reference) pair.
func BuildAnalysisPrompt(doc types.Document, ref types.ComplianceReference) string {
	var sb strings.Builder

	sb.WriteString(analysisPreamble)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(`{
  "issues": [
    {
      "description": string,   // why this passage is non-compliant
      "quoted_text": string,   // exact substring of the document
      "offset": {"start": int, "end": int},
      "severity": "info" | "warning" | "violation"  // optional
    }
  ]
}`)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Report only findings grounded in the reference; do not invent requirements.\n")
	sb.WriteString("- Return {\"issues\": []} when the document is fully compliant.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	if ref.Title != "" {
		sb.WriteString(fmt.Sprintf("Compliance reference (%s — %s):\n\"\"\"\n", ref.ID, ref.Title))
	} else {
		sb.WriteString(fmt.Sprintf("Compliance reference (%s):\n\"\"\"\n", ref.ID))
	}
	sb.WriteString(ref.Content)
	sb.WriteString("\n\"\"\"\n\n")

	sb.WriteString("Clinical document:\n\"\"\"\n")
	sb.WriteString(doc.Content)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
