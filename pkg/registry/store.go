package registry

import "github.com/predictia/predictia-go/pkg/models"

// Store is the durable mapping from model identifier to lifecycle
// status: the single source of truth for whether a model exists and is
// usable. Implementations must treat each read-modify-write as a
// critical section so concurrent writers to different identifiers never
// corrupt each other's entries, and must persist a transition before
// returning to the caller that triggered it.
type Store interface {
	// Get returns the record for an identifier, or ErrNotFound.
	Get(id string) (*models.ModelRecord, error)

	// Upsert writes a full record, creating or replacing the entry.
	Upsert(record *models.ModelRecord) error

	// UpdateStatus transitions an entry to the given status and
	// refreshes its timestamp, creating the entry if absent.
	UpdateStatus(id string, status models.ModelStatus) error

	// Delete removes an entry, or returns ErrNotFound if there is
	// nothing to delete.
	Delete(id string) error

	// List returns all registry entries.
	List() ([]*models.ModelRecord, error)

	// Close releases the underlying storage.
	Close() error
}
