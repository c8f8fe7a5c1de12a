// Package catalogue loads and holds the fixed set of compliance references
// available to the matcher. The catalogue is built once at startup and is
// immutable afterwards, so concurrent readers need no locking.
package catalogue

import (
	"fmt"
	"sort"

	"github.com/clinsight/compliance-review/internal/types"
)

// UnavailableError indicates the catalogue could not be loaded at startup.
// It is fatal to the process, never a per-request error.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("catalogue unavailable (%s): %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Catalogue is the immutable in-process set of compliance references.
type Catalogue struct {
	refs []types.ComplianceReference
}

// New builds a catalogue from the given references, sorted by ID for
// deterministic iteration. References with empty IDs or duplicate IDs are
// rejected.
func New(refs []types.ComplianceReference) (*Catalogue, error) {
	sorted := make([]types.ComplianceReference, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].ID < sorted[b].ID })

	seen := make(map[string]bool, len(sorted))
	for _, ref := range sorted {
		if ref.ID == "" {
			return nil, fmt.Errorf("reference with empty id (title %q)", ref.Title)
		}
		if seen[ref.ID] {
			return nil, fmt.Errorf("duplicate reference id %q", ref.ID)
		}
		seen[ref.ID] = true
	}

	return &Catalogue{refs: sorted}, nil
}

// References returns the catalogue contents in ID order. Callers must not
// mutate the returned slice.
func (c *Catalogue) References() []types.ComplianceReference {
	return c.refs
}

// Len returns the number of references in the catalogue.
func (c *Catalogue) Len() int {
	return len(c.refs)
}

// Get returns the reference with the given ID, if present.
func (c *Catalogue) Get(id string) (types.ComplianceReference, bool) {
	i := sort.Search(len(c.refs), func(i int) bool { return c.refs[i].ID >= id })
	if i < len(c.refs) && c.refs[i].ID == id {
		return c.refs[i], true
	}
	return types.ComplianceReference{}, false
}
