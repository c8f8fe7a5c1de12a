// Package types provides type definitions for structured data used throughout the compliance-review system.
package types

import (
	"fmt"
	"sort"
)

// Severity classifies how serious a compliance issue is.
type Severity string

// Severity levels, mildest first.
const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityViolation Severity = "violation"
)

// ValidSeverity reports whether s is one of the known severity levels.
// The empty string is valid because severity is optional on the wire.
func ValidSeverity(s Severity) bool {
	switch s {
	case "", SeverityInfo, SeverityWarning, SeverityViolation:
		return true
	}
	return false
}

// Offset is a half-open byte range [Start, End) into the UTF-8 encoding of a
// document's content. Byte indices, not code points: the wire format and the
// source text agree on bytes.
type Offset struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Issue is a single compliance finding: a span of the document flagged
// against a reference, with an explanation.
type Issue struct {
	Description string   `json:"description"`
	QuotedText  string   `json:"quoted_text"`
	Offset      Offset   `json:"offset"`
	Severity    Severity `json:"severity,omitempty"`
}

// ValidateAgainst checks the issue's offset against the document content it
// refers to: 0 <= start < end <= len(content), and the quoted text must match
// the content at the offset byte for byte.
func (i Issue) ValidateAgainst(content string) error {
	if i.Offset.Start < 0 || i.Offset.Start >= i.Offset.End {
		return fmt.Errorf("invalid offset range [%d, %d)", i.Offset.Start, i.Offset.End)
	}
	if i.Offset.End > len(content) {
		return fmt.Errorf("offset end %d exceeds content length %d", i.Offset.End, len(content))
	}
	if got := content[i.Offset.Start:i.Offset.End]; got != i.QuotedText {
		return fmt.Errorf("quoted text %q does not match content at [%d, %d)", i.QuotedText, i.Offset.Start, i.Offset.End)
	}
	return nil
}

// IssueList is an ordered sequence of issues.
type IssueList []Issue

// Sort orders the list by ascending offset start, then longer range first,
// then description lexicographically.
func (l IssueList) Sort() {
	sort.SliceStable(l, func(a, b int) bool {
		ia, ib := l[a], l[b]
		if ia.Offset.Start != ib.Offset.Start {
			return ia.Offset.Start < ib.Offset.Start
		}
		if ia.Offset.End != ib.Offset.End {
			return ia.Offset.End > ib.Offset.End
		}
		return ia.Description < ib.Description
	})
}

// Dedupe removes issues that share both offset and description, keeping the
// first occurrence. The input order is preserved.
func (l IssueList) Dedupe() IssueList {
	type key struct {
		start, end  int
		description string
	}
	seen := make(map[key]bool, len(l))
	out := make(IssueList, 0, len(l))
	for _, issue := range l {
		k := key{issue.Offset.Start, issue.Offset.End, issue.Description}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, issue)
	}
	return out
}
