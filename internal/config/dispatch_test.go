package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader names each document after the file it was given.
type stubLoader struct {
	calls []string
}

func (s *stubLoader) Load(_ context.Context, paths ...string) ([]*idl.Document, error) {
	var docs []*idl.Document
	for _, p := range paths {
		s.calls = append(s.calls, filepath.Base(p))
		docs = append(docs, &idl.Document{Name: filepath.Base(p)})
	}
	return docs, nil
}

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		full := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	}
	return dir
}

func TestFindFiles(t *testing.T) {
	// --- Arrange ---
	dir := writeTree(t, "a.json", "nested/b.HCL", "nested/notes.txt", "c.hcl")

	// --- Act ---
	files, err := FindFiles([]string{dir, filepath.Join(dir, "a.json"), filepath.Join(dir, "nested", "notes.txt")}, ".json", ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.json", "c.hcl", "nested/b.HCL", "nested/notes.txt"}, names)
}

func TestFindFilesMissingPath(t *testing.T) {
	_, err := FindFiles([]string{filepath.Join(t.TempDir(), "nope")}, ".json")
	assert.ErrorContains(t, err, "error accessing path")
}

func TestFindFilesPanicsWithoutExtensions(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFiles(nil) })
}

func TestDispatcherRoutesByExtension(t *testing.T) {
	// --- Arrange ---
	dir := writeTree(t, "one.json", "two.hcl", "skip.md")
	jsonLoader, hclLoader := &stubLoader{}, &stubLoader{}
	d := NewDispatcher()
	d.Register(".json", jsonLoader)
	d.Register(".HCL", hclLoader)

	// --- Act ---
	docs, err := d.Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{".hcl", ".json"}, d.Extensions())
	assert.Equal(t, []string{"one.json"}, jsonLoader.calls)
	assert.Equal(t, []string{"two.hcl"}, hclLoader.calls)
	require.Len(t, docs, 2)
}

func TestDispatcherRejectsUnknownExplicitFile(t *testing.T) {
	dir := writeTree(t, "schema.yaml")
	d := NewDispatcher()
	d.Register(".json", &stubLoader{})

	_, err := d.Load(context.Background(), filepath.Join(dir, "schema.yaml"))

	assert.ErrorContains(t, err, "no schema loader for")
	assert.ErrorContains(t, err, "supported: .json")
}

func TestRegisterRequiresDot(t *testing.T) {
	assert.Panics(t, func() { NewDispatcher().Register("json", &stubLoader{}) })
}
