package provider

import (
	"context"
	"log"
	"strings"
)

// DefaultName is the canonical fallback adapter used when PDF_PROCESSOR is
// unset or unrecognised.
const DefaultName = NameGemini

// NewAnalyzer resolves the configured processor name to a ready-to-use
// adapter. The name is matched case-insensitively; unknown names degrade to
// the canonical default with a warning naming both the requested and the
// actual processor. Construction fails only when the selected adapter's own
// credentials are missing.
func NewAnalyzer(ctx context.Context, processor string) (Analyzer, error) {
	name := strings.ToLower(strings.TrimSpace(processor))

	switch name {
	case NameAzure:
		log.Printf("[provider] using processor %s", NameAzure)
		return NewAzureAnalyzer(LoadAzureConfig())
	case NameGemini:
		log.Printf("[provider] using processor %s", NameGemini)
		return NewGeminiAnalyzer(ctx)
	case "":
		log.Printf("[provider] no processor configured, using default %s", DefaultName)
		return NewGeminiAnalyzer(ctx)
	default:
		log.Printf("[provider] WARNING: unknown processor %q, falling back to %s", processor, DefaultName)
		return NewGeminiAnalyzer(ctx)
	}
}
