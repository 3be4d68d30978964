// Package output writes generated files so readers never see a partial file.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWriter handles atomic file writing using temp → rename pattern.
type AtomicWriter struct {
	outputDir string
}

// NewAtomicWriter creates a new atomic writer, creating outputDir if needed.
func NewAtomicWriter(outputDir string) (*AtomicWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &AtomicWriter{outputDir: outputDir}, nil
}

// Write streams content produced by fn into filename. The temp file lives in
// the output directory so the final rename never crosses filesystems. If fn
// fails the existing file is left untouched.
func (w *AtomicWriter) Write(filename string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(w.outputDir, "."+filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	err = fn(tmp)
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close temp file: %w", closeErr)
	}
	if err != nil {
		os.Remove(tempPath)
		return err
	}

	// Rename to final location (atomic operation)
	finalPath := filepath.Join(w.outputDir, filename)
	if err := os.Rename(tempPath, finalPath); err != nil {
		// Clean up temp file on error
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WriteFile atomically writes the content produced by fn to path.
func WriteFile(path string, fn func(io.Writer) error) error {
	w, err := NewAtomicWriter(filepath.Dir(path))
	if err != nil {
		return err
	}
	return w.Write(filepath.Base(path), fn)
}
