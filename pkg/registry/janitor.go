package registry

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/predictia/predictia-go/pkg/models"
)

// Janitor marks registry entries abandoned by a crash as failed. A
// process dying mid-training leaves its entry stuck in queued or
// training; the sweep ensures such entries never linger as anything
// that could be mistaken for progress. Entries are only swept after
// maxAge without an update, so live trainings are never touched as
// long as maxAge comfortably exceeds the longest expected fit.
type Janitor struct {
	store  Store
	maxAge time.Duration
	cron   *cron.Cron
}

// NewJanitor creates a janitor sweeping entries older than maxAge.
func NewJanitor(store Store, maxAge time.Duration) *Janitor {
	return &Janitor{
		store:  store,
		maxAge: maxAge,
		cron:   cron.New(),
	}
}

// Start schedules periodic sweeps at the given interval.
func (j *Janitor) Start(interval time.Duration) {
	j.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		swept, err := j.SweepOnce()
		if err != nil {
			log.Printf("Registry sweep failed: %v", err)
			return
		}
		if swept > 0 {
			log.Printf("Registry sweep marked %d stale entries as failed", swept)
		}
	}))
	j.cron.Start()
}

// Stop cancels the periodic sweeps.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// SweepOnce marks every queued or training entry whose last update is
// older than maxAge as failed, and returns how many it swept.
func (j *Janitor) SweepOnce() (int, error) {
	records, err := j.store.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list registry entries: %w", err)
	}

	cutoff := time.Now().UTC().Add(-j.maxAge)
	swept := 0
	for _, record := range records {
		if record.Status != models.ModelStatusQueued && record.Status != models.ModelStatusTraining {
			continue
		}
		if record.UpdatedAt.After(cutoff) {
			continue
		}
		if err := j.store.UpdateStatus(record.ID, models.ModelStatusFailed); err != nil {
			return swept, fmt.Errorf("failed to sweep entry %s: %w", record.ID, err)
		}
		log.Printf("Marked stale %s model %s as failed", record.Status, record.ID)
		swept++
	}

	return swept, nil
}
