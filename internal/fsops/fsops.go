// Package fsops performs the filesystem side of the command grammar:
// creating, deleting, renaming and moving files and folders.
//
// Paths are resolved against the session working directory. Nothing here is
// sandboxed; operations act directly on the host filesystem.
package fsops

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nadzzz/deskpilot/internal/session"
)

// ErrMissing is returned when an operation's target or source does not exist.
// No mutation has happened when it is returned.
var ErrMissing = errors.New("does not exist")

// ErrIntoItself is returned when a folder would be moved into itself.
var ErrIntoItself = errors.New("cannot move a directory into itself")

// Ops executes filesystem commands relative to a working directory.
type Ops struct {
	wd     *session.Workdir
	rename func(oldpath, newpath string) error
}

// New creates Ops bound to wd.
func New(wd *session.Workdir) *Ops {
	return &Ops{wd: wd, rename: os.Rename}
}

// CreateFile creates an empty file at p, creating missing parent
// directories. An existing file is truncated.
func (o *Ops) CreateFile(p string) error {
	full := o.wd.Resolve(p)
	if err := ensureParent(full); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	return f.Close()
}

// CreateFolder creates p and any missing parents. It is idempotent.
func (o *Ops) CreateFolder(p string) error {
	return os.MkdirAll(o.wd.Resolve(p), 0o755)
}

// DeleteFile removes the file at p.
func (o *Ops) DeleteFile(p string) error {
	full := o.wd.Resolve(p)
	info, err := os.Stat(full)
	if err != nil {
		return missing(p, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: is a directory", p)
	}
	return os.Remove(full)
}

// DeleteFolder removes the directory at p and everything below it.
func (o *Ops) DeleteFolder(p string) error {
	full := o.wd.Resolve(p)
	info, err := os.Stat(full)
	if err != nil {
		return missing(p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", p)
	}
	return os.RemoveAll(full)
}

// Rename atomically renames src to dst, creating dst's parent directory.
// Renames across filesystems fail as the OS reports them.
func (o *Ops) Rename(src, dst string) error {
	from, to := o.wd.Resolve(src), o.wd.Resolve(dst)
	if _, err := os.Lstat(from); err != nil {
		return missing(src, err)
	}
	if err := ensureParent(to); err != nil {
		return err
	}
	return o.rename(from, to)
}

// Move relocates src to dst. When dst is an existing directory, src is moved
// inside it. A destination equal to or inside src is refused before anything
// changes. If the rename fails because src and dst are on different
// filesystems the tree is copied and the source removed.
func (o *Ops) Move(src, dst string) error {
	from, to := o.wd.Resolve(src), o.wd.Resolve(dst)
	info, err := os.Lstat(from)
	if err != nil {
		return missing(src, err)
	}
	if st, err := os.Stat(to); err == nil && st.IsDir() {
		to = filepath.Join(to, filepath.Base(from))
	}
	if within(from, to) {
		return fmt.Errorf("%w: %s into %s", ErrIntoItself, src, dst)
	}
	if err := ensureParent(to); err != nil {
		return err
	}

	err = o.rename(from, to)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	slog.Debug("rename crossed filesystems, copying instead", "from", from, "to", to)
	if info.IsDir() {
		if err := os.CopyFS(to, os.DirFS(from)); err != nil {
			return fmt.Errorf("copying %s: %w", src, err)
		}
		return os.RemoveAll(from)
	}
	if err := copyFile(from, to, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return os.Remove(from)
}

// within reports whether p is root or lies below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func ensureParent(p string) error {
	dir := filepath.Dir(p)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func missing(p string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", p, ErrMissing)
	}
	return err
}
