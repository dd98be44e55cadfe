// Package fs provides file-based output for harvest results.
package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// ExportFile writes an export with atomic replace semantics. Content is
// written to a temporary file next to the target path, then moved over
// the target on Commit. A failed run never leaves a truncated export.
type ExportFile struct {
	path string
	tmp  *os.File
	err  error
}

// NewExportFile creates an ExportFile that will replace path on Commit.
func NewExportFile(path string) *ExportFile {
	return &ExportFile{path: path}
}

// Path returns the final path of the export.
func (e *ExportFile) Path() string {
	return e.path
}

// Write appends p to the temporary file, creating it on first use.
func (e *ExportFile) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.tmp == nil {
		dir := filepath.Dir(e.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			e.err = err
			return 0, err
		}
		f, err := os.CreateTemp(dir, filepath.Base(e.path)+".*.tmp")
		if err != nil {
			e.err = err
			return 0, err
		}
		e.tmp = f
	}
	n, err := e.tmp.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// Commit moves the written content to the target path. Committing without
// any writes produces an empty file.
func (e *ExportFile) Commit() error {
	if e.err != nil {
		_ = e.Abort()
		return e.err
	}
	if e.tmp == nil {
		if _, err := e.Write(nil); err != nil {
			return err
		}
	}

	name := e.tmp.Name()
	if err := e.tmp.Sync(); err != nil {
		_ = e.Abort()
		return err
	}
	if err := e.tmp.Close(); err != nil {
		_ = os.Remove(name)
		e.tmp = nil
		return err
	}
	e.tmp = nil

	if err := os.Chmod(name, 0644); err != nil {
		_ = os.Remove(name)
		return err
	}
	return os.Rename(name, e.path)
}

// Abort discards the temporary file. The target path is left untouched.
func (e *ExportFile) Abort() error {
	if e.tmp == nil {
		return nil
	}
	name := e.tmp.Name()
	closeErr := e.tmp.Close()
	e.tmp = nil
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return closeErr
}
