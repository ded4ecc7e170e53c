package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/.folio/shelf.db")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".folio", "shelf.db"), got)

	got, err = ExpandPath("relative/shelf.db")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	bad := []string{
		"",
		"../etc/passwd",
		"/tmp/a/../../etc",
		"/tmp/with\x00null",
		"/tmp/ctrl\x01char",
		"~other/file",
	}
	for _, p := range bad {
		_, err := ExpandPath(p)
		assert.ErrorIs(t, err, ErrUnsafePath, "path %q", p)
	}
}

func TestPrepareFile(t *testing.T) {
	dir := t.TempDir()

	p, err := PrepareFile(filepath.Join(dir, "nested", "shelf.db"))
	require.NoError(t, err)
	info, err := os.Stat(filepath.Dir(p))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = PrepareFile(dir)
	assert.Error(t, err)
}

func TestPrepareDir(t *testing.T) {
	dir := t.TempDir()

	p, err := PrepareDir(filepath.Join(dir, "idx", "shelf.bleve"))
	require.NoError(t, err)
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Dir(p))
	assert.NoError(t, err)

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = PrepareDir(file)
	assert.Error(t, err)
}
