package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsRulesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".github"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPath), []byte("# Rules\nNo globals."), 0o644))

	l := NewLoader(dir, "")
	rules, err := l.Load()

	require.NoError(t, err)
	assert.Contains(t, rules, "No globals.")
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	l := NewLoader(t.TempDir(), "")
	rules, err := l.Load()

	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs/STYLE.md"), []byte("tabs not spaces"), 0o644))

	l := NewLoader(dir, "docs/STYLE.md")
	rules, err := l.Load()

	require.NoError(t, err)
	assert.Equal(t, "tabs not spaces", rules)
}
