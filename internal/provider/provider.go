package provider

import (
	"context"

	"github.com/clinsight/compliance-review/internal/types"
)

// Named adapters selectable via PDF_PROCESSOR.
const (
	NameAzure  = "azure"
	NameGemini = "gemini"
)

// Analyzer is the compliance-analysis capability: given a clinical document
// and a compliance reference, produce the list of issues found in the
// document. Implementations make outbound network calls and must be safe for
// concurrent use across requests.
//
// Analyze returns issues in provider order; ordering, deduplication and
// offset validation are the pipeline's responsibility. An empty document
// content must yield an empty list without calling the provider. Failures are
// reported through the typed errors in this package.
type Analyzer interface {
	Analyze(ctx context.Context, doc types.Document, ref types.ComplianceReference) ([]types.Issue, error)

	// Name returns the adapter's provider name for logging.
	Name() string

	// Close releases any resources held by the adapter.
	Close() error
}
