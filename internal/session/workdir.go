// Package session holds the state shared by every request: the working
// directory that NAVIGATE changes and relative paths resolve against.
//
// There is exactly one Workdir per process. Requests are not isolated from
// each other: a NAVIGATE from one request changes where a concurrent
// request's relative CREATE lands, and the last writer wins.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Workdir is the serialized process-wide working directory.
type Workdir struct {
	mu           sync.RWMutex
	dir          string
	chdirProcess bool
}

// NewWorkdir creates a store starting at start (the process cwd when empty).
// When chdirProcess is set, Chdir also moves the process working directory.
func NewWorkdir(start string, chdirProcess bool) (*Workdir, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		start = cwd
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolving start directory: %w", err)
	}
	return &Workdir{dir: abs, chdirProcess: chdirProcess}, nil
}

// Get returns the current directory.
func (w *Workdir) Get() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dir
}

// Resolve returns p unchanged when absolute, otherwise joined onto the
// current directory.
func (w *Workdir) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.Get(), p)
}

// Exists reports whether p (resolved) exists.
func (w *Workdir) Exists(p string) bool {
	_, err := os.Stat(w.Resolve(p))
	return err == nil
}

// Chdir moves the working directory to p. It returns os.ErrNotExist
// (wrapped) when p does not exist; on any error the directory is unchanged.
func (w *Workdir) Chdir(p string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	target := p
	if !filepath.IsAbs(target) {
		target = filepath.Join(w.dir, target)
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("chdir %s: %w", p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("chdir %s: not a directory", p)
	}
	if w.chdirProcess {
		if err := os.Chdir(target); err != nil {
			return fmt.Errorf("chdir %s: %w", p, err)
		}
	}
	w.dir = filepath.Clean(target)
	return nil
}
