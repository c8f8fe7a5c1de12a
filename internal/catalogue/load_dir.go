package catalogue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/clinsight/compliance-review/internal/types"
)

// maxConcurrentReads bounds parallel file reads during a directory load.
const maxConcurrentReads = 8

// LoadDir builds a catalogue from a directory of YAML reference files. Every
// *.yaml or *.yml file must contain a single reference document with at least
// an id and content. Files are read concurrently; the resulting catalogue is
// sorted by reference ID regardless of read order.
func LoadDir(dir string) (*Catalogue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &UnavailableError{Source: dir, Err: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return New(nil)
	}

	var (
		mu   sync.Mutex
		refs []types.ComplianceReference
	)
	var g errgroup.Group
	g.SetLimit(maxConcurrentReads)

	for _, path := range paths {
		g.Go(func() error {
			ref, err := loadFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			refs = append(refs, ref)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &UnavailableError{Source: dir, Err: err}
	}

	cat, err := New(refs)
	if err != nil {
		return nil, &UnavailableError{Source: dir, Err: err}
	}
	return cat, nil
}

// loadFile parses a single YAML reference file.
func loadFile(path string) (types.ComplianceReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ComplianceReference{}, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}

	var ref types.ComplianceReference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return types.ComplianceReference{}, fmt.Errorf("failed to parse reference file %s: %w", path, err)
	}
	if ref.ID == "" {
		return types.ComplianceReference{}, fmt.Errorf("reference file %s has no id", path)
	}
	if ref.Content == "" {
		return types.ComplianceReference{}, fmt.Errorf("reference file %s has no content", path)
	}
	return ref, nil
}
