package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidStatus = errors.New("invalid status")
)

// File is a whole-file JSON collection: every read loads the entire file
// and every mutation rewrites it, pretty-printed. A missing or corrupt
// file reads as the zero collection so a damaged data dir degrades to an
// empty dataset instead of taking the server down.
type File[T any] struct {
	path string
}

func NewFile[T any](path string) *File[T] { return &File[T]{path: path} }

func (f *File[T]) Path() string { return f.path }

func (f *File[T]) Load() T {
	var v T
	data, err := os.ReadFile(f.path)
	if err != nil {
		return v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("store: unreadable %s, treating as empty: %v", f.path, err)
		var zero T
		return zero
	}
	return v
}

func (f *File[T]) Save(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, append(data, '\n'), 0o644)
}
