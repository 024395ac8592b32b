// Package persist converts state to and from its stored JSON form:
// snapshot serialization, the forward-only schema migration chain,
// rehydration into validated entities, and the debounced writer that
// keeps a storage backend in sync with the store.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoData is returned by a Backend when nothing has been stored yet.
var ErrNoData = errors.New("no persisted data")

// Backend is a raw byte store for one state snapshot.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileBackend stores the snapshot in a single file, written atomically
// via a temp file rename.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

func (b *FileBackend) Save(data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmpName, b.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the snapshot in memory, for tests and ephemeral
// sessions. Safe for concurrent use; the writer saves from a timer
// goroutine.
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	saves  int
	failIO bool
}

func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

// FailIO makes every Load/Save return an error, simulating a broken
// storage medium.
func (b *MemoryBackend) FailIO(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failIO = fail
}

// Saves reports how many times Save succeeded.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}

func (b *MemoryBackend) Load() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failIO {
		return nil, errors.New("memory backend: load failed")
	}
	if b.data == nil {
		return nil, ErrNoData
	}
	return b.data, nil
}

func (b *MemoryBackend) Save(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failIO {
		return errors.New("memory backend: save failed")
	}
	b.data = append([]byte(nil), data...)
	b.saves++
	return nil
}
