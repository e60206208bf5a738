package models

import (
	"fmt"
	"time"
)

// Record represents one input row: a mapping of column name to value.
// Values arrive from JSON, so scalars are string, float64, bool or nil;
// compound values (arrays, objects) are dropped during sanitization.
type Record map[string]interface{}

// ModelKind represents the kind of problem a model solves
type ModelKind string

const (
	ModelKindClassification ModelKind = "classification"
	ModelKindRegression     ModelKind = "regression"
)

// ModelStatus represents the current lifecycle status of a model
type ModelStatus string

const (
	ModelStatusQueued   ModelStatus = "queued"   // Training accepted but not started
	ModelStatusTraining ModelStatus = "training" // Model is currently training
	ModelStatusReady    ModelStatus = "ready"    // Training completed, bundle persisted
	ModelStatusFailed   ModelStatus = "failed"   // Training failed, no bundle written
)

// ModelRecord is a registry entry describing one model's lifecycle.
// "not_found" is never stored; it is the registry's answer for absent ids.
type ModelRecord struct {
	ID            string      `json:"id"`
	Status        ModelStatus `json:"status"`
	Kind          ModelKind   `json:"kind,omitempty"`
	TargetColumn  string      `json:"target_col,omitempty"`
	FeatureSchema []string    `json:"feature_schema,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TrainingRequest represents a request to train a new model
type TrainingRequest struct {
	ID           string   `json:"id"`
	TargetColumn string   `json:"target_col"`
	TrainingData []Record `json:"training_data"`
}

// Validate checks if the TrainingRequest is valid
func (r *TrainingRequest) Validate() error {
	if r.ID == "" {
		return &ValidationError{Reason: "id is required"}
	}
	if r.TargetColumn == "" {
		return &ValidationError{Reason: "target_col is required"}
	}
	if len(r.TrainingData) == 0 {
		return &ValidationError{Reason: "training_data must contain at least one row"}
	}
	return nil
}

// PredictionRequest represents a request to score rows against a trained model
type PredictionRequest struct {
	InputData []Record `json:"input_data"`
}

// Validate checks if the PredictionRequest is valid
func (r *PredictionRequest) Validate() error {
	if len(r.InputData) == 0 {
		return &ValidationError{Reason: "input_data must contain at least one row"}
	}
	return nil
}

// String implements fmt.Stringer for log output
func (s ModelStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the stored lifecycle statuses
func (s ModelStatus) Valid() bool {
	switch s {
	case ModelStatusQueued, ModelStatusTraining, ModelStatusReady, ModelStatusFailed:
		return true
	}
	return false
}

// Touch refreshes the record's last-updated timestamp
func (r *ModelRecord) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// SetStatus transitions the record to the given status and refreshes
// the last-updated timestamp
func (r *ModelRecord) SetStatus(status ModelStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid model status: %s", status)
	}
	r.Status = status
	r.Touch()
	return nil
}
