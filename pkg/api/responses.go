package api

import (
	"strings"
	"time"

	"github.com/predictia/predictia-go/pkg/models"
)

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// TrainingResponse acknowledges an accepted training submission
type TrainingResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ModelStatusResponse describes one model's lifecycle state
type ModelStatusResponse struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	UpdatedAt     string   `json:"updated_at"`
	ModelKind     string   `json:"model_kind,omitempty"`
	FeatureSchema []string `json:"feature_schema,omitempty"`
	TargetColumn  string   `json:"target_col,omitempty"`
}

// ModelListResponse lists all registered models
type ModelListResponse struct {
	Models []ModelStatusResponse `json:"models"`
	Count  int                   `json:"count"`
}

// PredictionResponse carries predictions for one input batch
type PredictionResponse struct {
	ModelID     string        `json:"model_id"`
	Predictions []interface{} `json:"predictions"`
	Count       int           `json:"count"`
}

// DeleteResponse acknowledges a model deletion
type DeleteResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the unified JSON error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newModelStatusResponse(record *models.ModelRecord) ModelStatusResponse {
	return ModelStatusResponse{
		ID:            record.ID,
		Status:        string(record.Status),
		UpdatedAt:     record.UpdatedAt.UTC().Format(time.RFC3339),
		ModelKind:     string(record.Kind),
		FeatureSchema: record.FeatureSchema,
		TargetColumn:  record.TargetColumn,
	}
}

// splitModelPath extracts the model id and trailing action from a
// /models/{id}[/{action}] path.
func splitModelPath(path string) (id, action string) {
	rest, ok := splitPath(path, "/models/")
	if !ok {
		return "", ""
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}

// splitPath strips a route prefix and returns the remainder.
func splitPath(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/"), true
}
