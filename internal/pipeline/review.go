// Package pipeline orchestrates one compliance review: match a reference,
// run the provider adapter, normalise the resulting issues.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/clinsight/compliance-review/internal/matcher"
	"github.com/clinsight/compliance-review/internal/provider"
	"github.com/clinsight/compliance-review/internal/types"
)

// Review outcome statuses.
const (
	StatusReviewed            = "reviewed"
	StatusNoMatchingReference = "no_matching_reference"
)

// ClientInputError indicates a malformed review request. Surfaced as 4xx.
type ClientInputError struct {
	Field   string
	Message string
}

func (e *ClientInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// Result is the outcome of one review.
type Result struct {
	ReferenceID *string         `json:"reference_id"`
	Status      string          `json:"status"`
	Issues      types.IssueList `json:"issues"`
}

// Reviewer composes the matcher and the active provider adapter. It is
// stateless per request; both collaborators are process-scoped and immutable
// after initialisation.
type Reviewer struct {
	matcher  *matcher.Matcher
	analyzer provider.Analyzer
	timeout  time.Duration
}

// New creates a reviewer. timeout bounds one full review including the
// provider call; a zero timeout disables the budget.
func New(m *matcher.Matcher, a provider.Analyzer, timeout time.Duration) *Reviewer {
	return &Reviewer{matcher: m, analyzer: a, timeout: timeout}
}

// Review runs one end-to-end compliance review. It performs no retries;
// retry policy belongs to the caller. Errors are the typed errors of the
// provider package plus ClientInputError; anything else an adapter produces
// is wrapped as an internal adapter error.
func (r *Reviewer) Review(ctx context.Context, doc types.Document) (*Result, error) {
	if doc.ID == "" {
		return nil, &ClientInputError{Field: "document_id", Message: "must not be empty"}
	}
	if !utf8.ValidString(doc.Content) {
		return nil, &ClientInputError{Field: "content", Message: "must be valid UTF-8"}
	}

	ref, _, ok := r.matcher.Match(doc)
	if !ok {
		return &Result{Status: StatusNoMatchingReference, Issues: types.IssueList{}}, nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	issues, err := r.analyzer.Analyze(ctx, doc, ref)
	if err != nil {
		err = r.classify(ctx, err)
		log.Printf("[pipeline] ERROR provider=%s document=%s: %v", r.analyzer.Name(), doc.ID, err)
		return nil, err
	}

	normalised, err := r.normalise(doc, issues)
	if err != nil {
		log.Printf("[pipeline] ERROR provider=%s document=%s: %v", r.analyzer.Name(), doc.ID, err)
		return nil, err
	}

	refID := ref.ID
	return &Result{ReferenceID: &refID, Status: StatusReviewed, Issues: normalised}, nil
}

// classify folds unexpected adapter failures into the error taxonomy. Typed
// provider errors pass through; a blown review budget is surfaced as an
// upstream availability problem; everything else is an internal adapter
// fault.
func (r *Reviewer) classify(ctx context.Context, err error) error {
	var (
		unavailable *provider.UpstreamUnavailableError
		quota       *provider.QuotaExceededError
		rejected    *provider.UpstreamRejectedError
		internal    *provider.AdapterError
	)
	if errors.As(err, &unavailable) || errors.As(err, &quota) ||
		errors.As(err, &rejected) || errors.As(err, &internal) {
		return err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &provider.UpstreamUnavailableError{Provider: r.analyzer.Name(), Err: err}
	}
	if errors.Is(err, context.Canceled) {
		// Client went away; abandon the request without reclassifying.
		return err
	}

	return &provider.AdapterError{Provider: r.analyzer.Name(), Err: err}
}

// normalise enforces the offset invariant, removes duplicates and applies
// the canonical ordering. An invariant violation means the provider returned
// data we cannot trust.
func (r *Reviewer) normalise(doc types.Document, issues []types.Issue) (types.IssueList, error) {
	for _, issue := range issues {
		if err := issue.ValidateAgainst(doc.Content); err != nil {
			return nil, &provider.UpstreamRejectedError{
				Provider: r.analyzer.Name(),
				Reason:   "issue violates offset invariant",
				Err:      err,
			}
		}
		if !types.ValidSeverity(issue.Severity) {
			return nil, &provider.UpstreamRejectedError{
				Provider: r.analyzer.Name(),
				Reason:   fmt.Sprintf("unknown severity %q", issue.Severity),
			}
		}
	}

	list := types.IssueList(issues).Dedupe()
	list.Sort()
	return list, nil
}
