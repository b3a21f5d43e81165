package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Sink maps logical artifact names to file paths under a run directory,
// creating parent directories on demand. Writes to distinct paths are safe
// from concurrent workers.
type Sink struct {
	root string
}

// New creates a Sink rooted at dir, creating the directory. An unwritable
// destination root is fatal: the whole run cannot proceed without it.
func New(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output root %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return nil, fmt.Errorf("output root %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return &Sink{root: dir}, nil
}

// Root returns the run directory.
func (s *Sink) Root() string {
	return s.root
}

// Path resolves a relative artifact path to its absolute destination.
func (s *Sink) Path(rel string) string {
	return filepath.Join(s.root, rel)
}

// EnsureDir creates the directory for rel (and parents) under the root.
// Directory structure is created eagerly per task, before any write, so a
// namespace subtree exists even when every query against it fails.
func (s *Sink) EnsureDir(rel string) error {
	if err := os.MkdirAll(s.Path(rel), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("cannot create output dir %s: %w", rel, err)
	}
	return nil
}

// Write stores data at rel, creating parent directories and overwriting any
// existing file. A nil data slice writes an empty file: failed artifacts
// still occupy their destination path.
func (s *Sink) Write(rel string, data []byte) error {
	dest := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("cannot create parent dirs for %s: %w", rel, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", rel, err)
	}
	return nil
}

// Size returns the total bytes written under the root.
func (s *Sink) Size() int64 {
	var total int64
	_ = filepath.WalkDir(s.root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, ierr := d.Info(); ierr == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

// FileCount returns the number of files under the root.
func (s *Sink) FileCount() int {
	count := 0
	_ = filepath.WalkDir(s.root, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}
