package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores all keys in one JSON document readable only by the owner.
type FileBackend struct {
	path string
	mu   sync.RWMutex
}

// NewFileBackend creates a file backend, creating the parent directory.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}

	return &FileBackend{path: path}, nil
}

// Path returns the location of the session document.
func (f *FileBackend) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *FileBackend) Get(_ context.Context, key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Put merges entries into the document and rewrites it atomically. An
// undecodable document is overwritten.
func (f *FileBackend) Put(_ context.Context, entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		current = make(map[string]string)
	} else if err != nil {
		return err
	}
	for k, v := range entries {
		current[k] = v
	}
	return f.save(current)
}

// Delete removes keys and rewrites the document atomically. The file is
// removed once it holds nothing, or when it cannot be decoded.
func (f *FileBackend) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if errors.Is(err, ErrCorrupt) {
		current = nil
	} else if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}

	if len(current) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: remove %s: %w", f.path, err)
		}
		return nil
	}
	return f.save(current)
}

// Close is a no-op.
func (f *FileBackend) Close() error {
	return nil
}

func (f *FileBackend) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}

	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	return entries, nil
}

func (f *FileBackend) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("storage: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", f.path, err)
	}
	return nil
}
