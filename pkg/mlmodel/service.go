package mlmodel

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/predictia/predictia-go/pkg/models"
	"github.com/predictia/predictia-go/pkg/registry"
	"github.com/predictia/predictia-go/pkg/worker"
)

// Service is the caller-facing surface of the model lifecycle pipeline.
// It owns the submit/status/predict/delete primitives, enforces the
// one-training-per-identifier rule at submission time and serializes
// inference against deletion per identifier.
type Service struct {
	store   registry.Store
	bundles BundleStore
	pool    *worker.Pool

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewService creates a new model lifecycle service
func NewService(store registry.Store, bundles BundleStore, pool *worker.Pool) *Service {
	return &Service{
		store:   store,
		bundles: bundles,
		pool:    pool,
		locks:   make(map[string]*sync.RWMutex),
	}
}

// lockFor returns the per-identifier lock, creating it on first use.
// Inference takes the read side, deletion and submission the write
// side, so a predict either sees the pre-delete bundle or a clean
// not-found, and two submissions racing on one identifier cannot both
// pass the conflict check.
func (s *Service) lockFor(id string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.RWMutex{}
		s.locks[id] = lock
	}
	return lock
}

// SubmitTraining accepts a training batch for a fresh identifier,
// persists the queued status and hands the fit to the worker pool.
// It returns as soon as the acknowledgment is durable; training runs
// independently and reports through the registry. An identifier that
// already has an entry in any status is rejected with ErrConflict.
func (s *Service) SubmitTraining(req *models.TrainingRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	// The conflict check and the queued insert must be one atomic step:
	// without the write lock, two submissions landing between them would
	// both be accepted and train the same identifier concurrently.
	lock := s.lockFor(req.ID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.Get(req.ID)
	if err == nil {
		return fmt.Errorf("%w: %s (status %s)", models.ErrConflict, req.ID, existing.Status)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check registry: %w", err)
	}

	record := &models.ModelRecord{
		ID:           req.ID,
		Status:       models.ModelStatusQueued,
		TargetColumn: req.TargetColumn,
	}
	if err := s.store.Upsert(record); err != nil {
		return fmt.Errorf("failed to queue training: %w", err)
	}

	s.pool.Submit("train model "+req.ID, func() {
		s.runTraining(req.ID, req.TargetColumn, req.TrainingData)
	})

	return nil
}

// runTraining executes one training attempt in the background. The
// transition to training is persisted before the fit starts; ready is
// only written after the bundle is durable, and failed after a
// terminal error, so no in-between state is ever visible as ready.
func (s *Service) runTraining(id, targetColumn string, rows []models.Record) {
	if err := s.store.UpdateStatus(id, models.ModelStatusTraining); err != nil {
		log.Printf("Failed to mark model %s as training: %v", id, err)
		return
	}

	bundle, err := TrainModel(targetColumn, rows)
	if err != nil {
		log.Printf("Training failed for model %s: %v", id, err)
		s.markFailed(id)
		return
	}

	if err := s.bundles.Save(id, bundle); err != nil {
		log.Printf("Failed to persist bundle for model %s: %v", id, err)
		s.markFailed(id)
		return
	}

	record := &models.ModelRecord{
		ID:            id,
		Status:        models.ModelStatusReady,
		Kind:          bundle.Kind,
		TargetColumn:  targetColumn,
		FeatureSchema: bundle.FeatureSchema,
	}
	if err := s.store.Upsert(record); err != nil {
		log.Printf("Failed to mark model %s as ready: %v", id, err)
		return
	}

	log.Printf("Model %s trained as %s with %d features", id, bundle.Kind, len(bundle.FeatureSchema))
}

// markFailed records a terminal training failure. The failure itself is
// not propagated further: the submitting caller already received its
// acknowledgment, so the registry is where the outcome lives.
func (s *Service) markFailed(id string) {
	if err := s.store.UpdateStatus(id, models.ModelStatusFailed); err != nil {
		log.Printf("Failed to mark model %s as failed: %v", id, err)
	}
}

// GetStatus returns the registry entry for an identifier, or
// ErrNotFound when it is absent.
func (s *Service) GetStatus(id string) (*models.ModelRecord, error) {
	return s.store.Get(id)
}

// ListModels returns all registry entries.
func (s *Service) ListModels() ([]*models.ModelRecord, error) {
	return s.store.List()
}

// Predict scores a batch of rows against a ready model, replaying the
// training-time encoding stored in its bundle. Absent identifiers
// surface ErrNotFound and existing-but-unready models ErrNotReady;
// a ready record without a loadable bundle is ErrBundleMissing.
func (s *Service) Predict(id string, rows []models.Record) ([]interface{}, error) {
	lock := s.lockFor(id)
	lock.RLock()
	defer lock.RUnlock()

	record, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if record.Status != models.ModelStatusReady {
		return nil, fmt.Errorf("%w: %s (status %s)", models.ErrNotReady, id, record.Status)
	}

	bundle, err := s.bundles.Load(id)
	if err != nil {
		return nil, err
	}

	return PredictBundle(bundle, rows)
}

// Delete removes a model's registry entry and its bundle. Models in any
// stored status can be deleted, including queued and training ones that
// never produced a bundle. Deleting an absent identifier reports
// ErrNotFound rather than silently succeeding.
func (s *Service) Delete(id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.Get(id); err != nil {
		return err
	}

	if err := s.bundles.Delete(id); err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}

	log.Printf("Deleted model %s", id)
	return nil
}
