package mlmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/predictia/predictia-go/pkg/models"
)

// BundleStore persists one durable model bundle blob per identifier.
type BundleStore interface {
	Save(id string, bundle *ModelBundle) error
	Load(id string) (*ModelBundle, error)
	Delete(id string) error
}

// FileBundleStore stores each bundle as a plain JSON file named after
// the model identifier.
type FileBundleStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileBundleStore creates a file-based bundle store rooted at dir.
func NewFileBundleStore(dir string) (*FileBundleStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create bundle directory: %w", err)
	}
	return &FileBundleStore{dir: dir}, nil
}

// Save writes the bundle to disk. The write goes through a temp file
// and a rename so readers never observe a half-written bundle.
func (s *FileBundleStore) Save(id string, bundle *ModelBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	path := s.path(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write bundle file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit bundle file: %w", err)
	}

	return nil
}

// Load reads and rehydrates the bundle for an identifier. A missing or
// undecodable file surfaces as ErrBundleMissing.
func (s *FileBundleStore) Load(id string) (*ModelBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrBundleMissing, id)
		}
		return nil, fmt.Errorf("failed to read bundle file: %w", err)
	}

	var bundle ModelBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrBundleMissing, id, err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrBundleMissing, id, err)
	}
	bundle.Rehydrate()

	return &bundle, nil
}

// Delete removes the bundle file. Deleting an identifier that never got
// a bundle (queued or failed models) is not an error.
func (s *FileBundleStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete bundle file: %w", err)
	}
	return nil
}

func (s *FileBundleStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
