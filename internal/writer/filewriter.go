// Package writer exposes sinks for serialized documents.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrClosed is returned when writing to a committed or aborted file.
var ErrClosed = errors.New("writer: file already closed")

// FileWriter streams a document to a temp file next to Path and renames
// it over Path on Commit. Nothing appears at Path unless Commit succeeds.
type FileWriter struct {
	Path string

	tmp     *os.File
	tmpPath string
}

// Create opens a temp file in the target's directory, creating the
// directory when needed.
func Create(path string) (*FileWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	// Create temp file in same directory to ensure atomic rename
	tmpFile, err := os.CreateTemp(dir, ".paramkit-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &FileWriter{Path: path, tmp: tmpFile, tmpPath: tmpFile.Name()}, nil
}

// Write appends p to the temp file.
func (w *FileWriter) Write(p []byte) (int, error) {
	if w.tmp == nil {
		return 0, ErrClosed
	}
	n, err := w.tmp.Write(p)
	if err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}
	return n, nil
}

// WriteString appends s to the temp file.
func (w *FileWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Commit syncs the temp file and renames it over Path.
func (w *FileWriter) Commit() error {
	if w.tmp == nil {
		return ErrClosed
	}
	tmpFile := w.tmp
	w.tmp = nil

	// Sync to disk
	if syncErr := datasync(tmpFile); syncErr != nil {
		_ = tmpFile.Close()
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	// Close before rename
	if closeErr := tmpFile.Close(); closeErr != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	// Atomic rename
	if renameErr := os.Rename(w.tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(w.tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}

	return nil
}

// Abort discards the temp file. Safe to call after Commit.
func (w *FileWriter) Abort() {
	if w.tmp == nil {
		return
	}
	_ = w.tmp.Close()
	_ = os.Remove(w.tmpPath)
	w.tmp = nil
}

// WriteFile writes buf to path atomically via temp file + rename.
func WriteFile(path string, buf []byte) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		w.Abort()
		return err
	}
	return w.Commit()
}
