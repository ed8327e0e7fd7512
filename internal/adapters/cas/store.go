// Package cas stores provisioning records next to the artifacts they describe.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RecordStore = (*Store)(nil)

// Store implements ports.RecordStore with one JSON file per prefix.
type Store struct {
	mu    sync.RWMutex
	cache map[string]domain.Record
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{cache: make(map[string]domain.Record)}
}

// Get reads the record at path. It returns nil without error if no record exists.
func (s *Store) Get(path string) (*domain.Record, error) {
	path = filepath.Clean(path)

	s.mu.RLock()
	rec, ok := s.cache[path]
	s.mu.RUnlock()
	if ok {
		return &rec, nil
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRecordReadFailed.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRecordReadFailed.Error()), "path", path)
	}

	s.mu.Lock()
	s.cache[path] = rec
	s.mu.Unlock()

	return &rec, nil
}

// Put writes rec to path, replacing any previous record.
func (s *Store) Put(path string, rec domain.Record) error {
	path = filepath.Clean(path)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrRecordWriteFailed.Error())
	}
	data = append(data, '\n')

	if err := writeFile(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRecordWriteFailed.Error()), "path", path)
	}

	s.mu.Lock()
	s.cache[path] = rec
	s.mu.Unlock()

	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".record-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
