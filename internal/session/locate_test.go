package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gradelab/grader/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("pass\n"), 0644))
	}
	return dir
}

func TestLocateExact(t *testing.T) {
	dir := writeFiles(t, "sums.py", "notes.txt")
	path, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.Exact, variant)
	assert.Equal(t, filepath.Join(dir, "sums.py"), path)
}

func TestLocateCaseFolded(t *testing.T) {
	dir := writeFiles(t, "Sums.PY")
	path, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.CaseFolded, variant)
	assert.Equal(t, filepath.Join(dir, "Sums.PY"), path)
}

func TestLocateExtStripped(t *testing.T) {
	dir := writeFiles(t, "sums.txt")
	path, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.ExtStripped, variant)
	assert.Equal(t, filepath.Join(dir, "sums.txt"), path)
}

func TestLocateExactPreferred(t *testing.T) {
	dir := writeFiles(t, "sums.py", "SUMS.PY", "sums.txt")
	_, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.Exact, variant)
}

func TestLocateNotFound(t *testing.T) {
	dir := writeFiles(t, "unrelated.py")
	path, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.NotFound, variant)
	assert.Empty(t, path)
}

func TestLocateIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sums.py"), 0755))
	_, variant, err := session.Locate(dir, "sums.py")
	require.NoError(t, err)
	assert.Equal(t, session.NotFound, variant)
}

func TestLocateMissingDir(t *testing.T) {
	_, _, err := session.Locate(filepath.Join(t.TempDir(), "nope"), "sums.py")
	require.Error(t, err)
}
