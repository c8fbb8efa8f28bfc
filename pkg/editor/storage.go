package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/isofar/wayfinder/pkg/observability"
)

// SnapshotName is the single storage key under which the world map is
// persisted. There is deliberately no versioning of multiple saved
// graphs; saving overwrites the prior snapshot.
const SnapshotName = "map_graph"

// SnapshotStore persists the serialized map snapshot under a fixed key.
type SnapshotStore interface {
	// Load returns the stored snapshot bytes. A missing snapshot is
	// reported as (nil, nil), not an error.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the stored snapshot.
	Save(ctx context.Context, data []byte) error

	// Delete removes the stored snapshot, if any.
	Delete(ctx context.Context) error
}

// FileStore persists the snapshot as a JSON file in a config directory.
// This is the default backend for CLI usage.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed snapshot store.
// If baseDir is empty, defaults to ~/.config/wayfinder/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "wayfinder")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.baseDir, SnapshotName+".json")
}

func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			observability.Storage().OnLoad(ctx, "file", 0, nil)
			return nil, nil
		}
		observability.Storage().OnLoad(ctx, "file", 0, err)
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	observability.Storage().OnLoad(ctx, "file", len(data), nil)
	return data, nil
}

func (s *FileStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		observability.Storage().OnSave(ctx, "file", len(data), err)
		return fmt.Errorf("write snapshot file: %w", err)
	}
	observability.Storage().OnSave(ctx, "file", len(data), nil)
	return nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

// Ensure FileStore implements SnapshotStore.
var _ SnapshotStore = (*FileStore)(nil)
