// Package provider defines the compliance-analysis capability and its
// concrete adapters.
package provider

import (
	"errors"
	"fmt"
)

// UpstreamUnavailableError indicates the backing provider could not be
// reached or did not answer in time. Retryable.
type UpstreamUnavailableError struct {
	Provider string
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error { return e.Err }

// QuotaExceededError indicates the provider signalled rate or credit
// exhaustion. Retryable.
type QuotaExceededError struct {
	Provider string
	Err      error
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("provider %s quota exceeded: %v", e.Provider, e.Err)
}

func (e *QuotaExceededError) Unwrap() error { return e.Err }

// UpstreamRejectedError indicates the provider returned data the adapter
// cannot accept: malformed JSON, schema violations, or offsets that do not
// match the document. Not retryable; a defect to investigate.
type UpstreamRejectedError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *UpstreamRejectedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s returned unusable output: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("provider %s returned unusable output: %s", e.Provider, e.Reason)
}

func (e *UpstreamRejectedError) Unwrap() error { return e.Err }

// AdapterError wraps any unexpected adapter-internal fault. Not retryable.
type AdapterError struct {
	Provider string
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter %s internal error: %v", e.Provider, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Retryable reports whether the error is a transient provider failure the
// caller may retry. The pipeline itself never retries.
func Retryable(err error) bool {
	var unavailable *UpstreamUnavailableError
	var quota *QuotaExceededError
	return errors.As(err, &unavailable) || errors.As(err, &quota)
}
