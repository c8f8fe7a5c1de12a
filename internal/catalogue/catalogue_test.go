package catalogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsight/compliance-review/internal/types"
)

func writeRef(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNew_SortsByID(t *testing.T) {
	cat, err := New([]types.ComplianceReference{
		{ID: "ref-icf-02", Content: "b"},
		{ID: "ref-icf-01", Content: "a"},
		{ID: "ref-gcp-01", Content: "c"},
	})
	require.NoError(t, err)

	refs := cat.References()
	require.Len(t, refs, 3)
	assert.Equal(t, "ref-gcp-01", refs[0].ID)
	assert.Equal(t, "ref-icf-01", refs[1].ID)
	assert.Equal(t, "ref-icf-02", refs[2].ID)
}

func TestNew_RejectsDuplicatesAndEmptyIDs(t *testing.T) {
	_, err := New([]types.ComplianceReference{
		{ID: "ref-01", Content: "a"},
		{ID: "ref-01", Content: "b"},
	})
	assert.Error(t, err)

	_, err = New([]types.ComplianceReference{{Content: "a"}})
	assert.Error(t, err)
}

func TestCatalogue_Get(t *testing.T) {
	cat, err := New([]types.ComplianceReference{
		{ID: "ref-icf-01", Title: "Informed Consent", Content: "a"},
		{ID: "ref-gcp-01", Content: "c"},
	})
	require.NoError(t, err)

	ref, ok := cat.Get("ref-icf-01")
	require.True(t, ok)
	assert.Equal(t, "Informed Consent", ref.Title)

	_, ok = cat.Get("ref-missing")
	assert.False(t, ok)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeRef(t, dir, "icf.yaml", "id: ref-icf-01\ntitle: Informed Consent Form\ncontent: |\n  Subjects must be informed of all foreseeable risks.\n")
	writeRef(t, dir, "gcp.yml", "id: ref-gcp-01\ncontent: Good clinical practice requirements.\n")
	writeRef(t, dir, "notes.txt", "not a reference")

	cat, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len(), "non-YAML files should be ignored")

	ref, ok := cat.Get("ref-icf-01")
	require.True(t, ok)
	assert.Equal(t, "Informed Consent Form", ref.Title)
	assert.Contains(t, ref.Content, "foreseeable risks")
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	cat, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestLoadDir_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRef(t, dir, "bad.yaml", "content only, no id\n")

	_, err := LoadDir(dir)
	require.Error(t, err)

	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, dir, unavailable.Source)
}
