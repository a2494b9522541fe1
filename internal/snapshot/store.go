// Package snapshot provides durable storage for engine snapshots.
//
// Stores move opaque byte payloads; the payload format belongs to the
// engine's codec. Two backends are provided: a plain file (atomic
// rename on save) and a bolt database bucket for deployments that
// already carry one.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
// Callers treat it as "start from empty state", not as a failure.
var ErrNotFound = errors.New("no snapshot stored")

// Store durably persists and retrieves one snapshot payload.
type Store interface {
	Save(data []byte) error
	Load() ([]byte, error)
	Close() error
}

// FileStore keeps the snapshot in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store. The parent directory must
// exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes to a temp file in the same directory and renames it over
// the target, so a crash mid-write never corrupts the stored snapshot.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return data, nil
}

func (s *FileStore) Close() error { return nil }
