package mlmodel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/predictia/predictia-go/pkg/models"
)

// TestFileBundleStoreRoundTrip tests that a saved bundle loads back
// with working encoders and label codec
func TestFileBundleStoreRoundTrip(t *testing.T) {
	store, err := NewFileBundleStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	rows := []models.Record{
		{"age": 22.0, "plan": "basic", "churn": "yes"},
		{"age": 50.0, "plan": "pro", "churn": "no"},
	}
	bundle, err := TrainModel("churn", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}

	if err := store.Save("m1", bundle); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	loaded, err := store.Load("m1")
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}

	if loaded.Kind != models.ModelKindClassification {
		t.Errorf("Expected classification bundle, got %s", loaded.Kind)
	}
	if code := loaded.Encoders["plan"].Code("pro"); code != 1 {
		t.Errorf("Expected code 1 for 'pro' after reload, got %d", code)
	}
	if code := loaded.Encoders["plan"].Code("enterprise"); code != -1 {
		t.Errorf("Expected sentinel code for unseen value after reload, got %d", code)
	}

	preds, err := PredictBundle(loaded, []models.Record{{"age": 25.0, "plan": "basic"}})
	if err != nil {
		t.Fatalf("Prediction on reloaded bundle failed: %v", err)
	}
	if preds[0] != "yes" && preds[0] != "no" {
		t.Errorf("Prediction %v is not an original label", preds[0])
	}
}

// TestFileBundleStoreMissing tests that loading an absent bundle
// surfaces ErrBundleMissing
func TestFileBundleStoreMissing(t *testing.T) {
	store, err := NewFileBundleStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if _, err := store.Load("ghost"); !errors.Is(err, models.ErrBundleMissing) {
		t.Errorf("Expected ErrBundleMissing, got %v", err)
	}
}

// TestFileBundleStoreCorrupt tests that an undecodable bundle file also
// surfaces ErrBundleMissing
func TestFileBundleStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBundleStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	if _, err := store.Load("bad"); !errors.Is(err, models.ErrBundleMissing) {
		t.Errorf("Expected ErrBundleMissing for corrupt file, got %v", err)
	}
}

// TestFileBundleStoreDelete tests deletion, including the no-bundle case
func TestFileBundleStoreDelete(t *testing.T) {
	store, err := NewFileBundleStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// Deleting an id that never produced a bundle is fine
	if err := store.Delete("never-trained"); err != nil {
		t.Errorf("Expected nil deleting absent bundle, got %v", err)
	}

	rows := []models.Record{
		{"x": 1.0, "y": 0.0},
		{"x": 9.0, "y": 1.0},
	}
	bundle, err := TrainModel("y", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}
	if err := store.Save("m1", bundle); err != nil {
		t.Fatalf("Failed to save bundle: %v", err)
	}

	if err := store.Delete("m1"); err != nil {
		t.Fatalf("Failed to delete bundle: %v", err)
	}
	if _, err := store.Load("m1"); !errors.Is(err, models.ErrBundleMissing) {
		t.Errorf("Expected ErrBundleMissing after delete, got %v", err)
	}
}
