// Package types provides type definitions for structured data used throughout the compliance-review system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"
)

// Document represents a clinical document submitted for compliance review.
// It is constructed once from the incoming request and never mutated afterwards.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`

	// Optional metadata. Informational only; the review pipeline never
	// parses these fields.
	Title   string     `json:"title,omitempty"`
	Type    string     `json:"type,omitempty"`
	Format  string     `json:"format,omitempty"`
	Created *time.Time `json:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

// ComplianceReference is a known regulatory or protocol document used as the
// comparison basis for a review. References come from the in-process
// catalogue and are immutable for the lifetime of the process.
type ComplianceReference struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Content string `json:"content" yaml:"content"`
}
