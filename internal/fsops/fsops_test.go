package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/deskpilot/internal/session"
)

func newOps(t *testing.T) (*Ops, string) {
	t.Helper()
	root := t.TempDir()
	wd, err := session.NewWorkdir(root, false)
	require.NoError(t, err)
	return New(wd), root
}

// crossDevice simulates two filesystem roots: every rename fails with EXDEV.
func crossDevice(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func TestCreateFile(t *testing.T) {
	ops, root := newOps(t)

	require.NoError(t, ops.CreateFile("deep/nested/report.txt"))
	info, err := os.Stat(filepath.Join(root, "deep/nested/report.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	// Creating again truncates.
	require.NoError(t, os.WriteFile(filepath.Join(root, "deep/nested/report.txt"), []byte("data"), 0o644))
	require.NoError(t, ops.CreateFile("deep/nested/report.txt"))
	info, err = os.Stat(filepath.Join(root, "deep/nested/report.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCreateFolderIdempotent(t *testing.T) {
	ops, root := newOps(t)

	require.NoError(t, ops.CreateFolder("a/b/c"))
	require.NoError(t, ops.CreateFolder("a/b/c"))

	entries, err := os.ReadDir(filepath.Join(root, "a/b/c"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteMissing(t *testing.T) {
	ops, root := newOps(t)

	assert.ErrorIs(t, ops.DeleteFile("ghost.txt"), ErrMissing)
	assert.ErrorIs(t, ops.DeleteFolder("ghost"), ErrMissing)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	ops, root := newOps(t)
	require.NoError(t, ops.CreateFile("dir/inner/file.txt"))

	assert.ErrorContains(t, ops.DeleteFile("dir"), "is a directory")
	assert.ErrorContains(t, ops.DeleteFolder("dir/inner/file.txt"), "not a directory")

	require.NoError(t, ops.DeleteFile("dir/inner/file.txt"))
	assert.NoFileExists(t, filepath.Join(root, "dir/inner/file.txt"))

	require.NoError(t, ops.DeleteFolder("dir"))
	assert.NoDirExists(t, filepath.Join(root, "dir"))
}

func TestRenameCreatesParent(t *testing.T) {
	ops, root := newOps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.txt"), []byte("keep me"), 0o644))

	require.NoError(t, ops.Rename("old.txt", "archive/2024/new.txt"))

	assert.NoFileExists(t, filepath.Join(root, "old.txt"))
	data, err := os.ReadFile(filepath.Join(root, "archive/2024/new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestRenameMissingSource(t *testing.T) {
	ops, root := newOps(t)

	assert.ErrorIs(t, ops.Rename("nope.txt", "sub/new.txt"), ErrMissing)
	assert.NoDirExists(t, filepath.Join(root, "sub"))
}

func TestRenameAcrossFilesystemsFails(t *testing.T) {
	ops, root := newOps(t)
	ops.rename = crossDevice
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	err := ops.Rename("a.txt", "b.txt")
	require.ErrorIs(t, err, syscall.EXDEV)
	assert.FileExists(t, filepath.Join(root, "a.txt"))
}

func TestMoveAcrossFilesystems(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		ops, root := newOps(t)
		ops.rename = crossDevice
		require.NoError(t, os.WriteFile(filepath.Join(root, "src.txt"), []byte("payload"), 0o600))

		require.NoError(t, ops.Move("src.txt", "other-root/dst.txt"))

		assert.NoFileExists(t, filepath.Join(root, "src.txt"))
		data, err := os.ReadFile(filepath.Join(root, "other-root/dst.txt"))
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("folder", func(t *testing.T) {
		ops, root := newOps(t)
		ops.rename = crossDevice
		require.NoError(t, os.MkdirAll(filepath.Join(root, "proj/sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "proj/sub/main.go"), []byte("package main"), 0o644))

		require.NoError(t, ops.Move("proj", "mnt/work"))

		assert.NoDirExists(t, filepath.Join(root, "proj"))
		data, err := os.ReadFile(filepath.Join(root, "mnt/work/sub/main.go"))
		require.NoError(t, err)
		assert.Equal(t, "package main", string(data))
	})
}

func tree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	require.NoError(t, filepath.WalkDir(root, func(p string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		paths = append(paths, filepath.ToSlash(rel))
		return err
	}))
	return paths
}

func TestMoveFolderIntoItself(t *testing.T) {
	for name, rename := range map[string]func(string, string) error{
		"same filesystem":  os.Rename,
		"cross filesystem": crossDevice,
	} {
		t.Run(name, func(t *testing.T) {
			ops, root := newOps(t)
			ops.rename = rename
			require.NoError(t, os.MkdirAll(filepath.Join(root, "a/b"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(root, "a/f.txt"), []byte("x"), 0o644))
			before := tree(t, root)

			err := ops.Move("a", "a/b")
			require.ErrorIs(t, err, ErrIntoItself)
			assert.Equal(t, before, tree(t, root))

			err = ops.Move("a", "a")
			require.ErrorIs(t, err, ErrIntoItself)
			assert.Equal(t, before, tree(t, root))
		})
	}
}

func TestMoveSiblingWithSharedPrefix(t *testing.T) {
	ops, root := newOps(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "a"), 0o755))

	require.NoError(t, ops.Move("a", "ab"))
	assert.DirExists(t, filepath.Join(root, "ab"))
}

func TestMoveOtherRenameErrorDoesNotCopy(t *testing.T) {
	ops, root := newOps(t)
	ops.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj/sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj/sub/main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dest"), 0o755))
	before := tree(t, root)

	err := ops.Move("proj", "dest/proj")
	require.ErrorIs(t, err, syscall.EACCES)
	assert.Equal(t, before, tree(t, root))
}

func TestMoveIntoExistingDirectory(t *testing.T) {
	ops, root := newOps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "Documents"), 0o755))

	require.NoError(t, ops.Move("notes.txt", "Documents"))
	assert.FileExists(t, filepath.Join(root, "Documents/notes.txt"))
}

func TestRelativePathsFollowWorkdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "work"), 0o755))
	wd, err := session.NewWorkdir(root, false)
	require.NoError(t, err)
	ops := New(wd)

	require.NoError(t, wd.Chdir("work"))
	require.NoError(t, ops.CreateFile("todo.txt"))
	assert.FileExists(t, filepath.Join(root, "work/todo.txt"))
}
