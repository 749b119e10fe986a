package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))

	w, err := NewWorkdir(root, false)
	require.NoError(t, err)
	assert.Equal(t, root, w.Get())

	assert.Equal(t, filepath.Join(root, "a.txt"), w.Resolve("a.txt"))
	assert.Equal(t, "/abs/a.txt", w.Resolve("/abs/a.txt"))

	require.NoError(t, w.Chdir("docs"))
	assert.Equal(t, filepath.Join(root, "docs"), w.Get())

	err = w.Chdir("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, filepath.Join(root, "docs"), w.Get())

	assert.True(t, w.Exists("."))
	assert.False(t, w.Exists("missing"))
}

// Concurrent NAVIGATEs are serialized; whichever lands last wins. The test
// only checks the store ends on one of the targets, never a torn value.
func TestWorkdirLastWriterWins(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	require.NoError(t, os.Mkdir(a, 0o755))
	require.NoError(t, os.Mkdir(b, 0o755))

	w, err := NewWorkdir(root, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = w.Chdir(a) }()
		go func() { defer wg.Done(); _ = w.Chdir(b) }()
	}
	wg.Wait()

	assert.Contains(t, []string{a, b}, w.Get())
}
