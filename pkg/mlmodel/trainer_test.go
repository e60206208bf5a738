package mlmodel

import (
	"errors"
	"reflect"
	"testing"

	"github.com/predictia/predictia-go/pkg/models"
)

// TestTrainModelClassification tests the classification path end to
// end: kind selection, label codec and decodable predictions
func TestTrainModelClassification(t *testing.T) {
	rows := []models.Record{
		{"age": 22.0, "plan": "basic", "churn": "yes"},
		{"age": 25.0, "plan": "basic", "churn": "yes"},
		{"age": 50.0, "plan": "pro", "churn": "no"},
		{"age": 55.0, "plan": "pro", "churn": "no"},
	}

	bundle, err := TrainModel("churn", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}

	if bundle.Kind != models.ModelKindClassification {
		t.Fatalf("Expected classification, got %s", bundle.Kind)
	}
	if !reflect.DeepEqual(bundle.FeatureSchema, []string{"age", "plan"}) {
		t.Errorf("Expected schema [age plan], got %v", bundle.FeatureSchema)
	}
	if !reflect.DeepEqual(bundle.Labels.Classes, []interface{}{"yes", "no"}) {
		t.Errorf("Expected label classes [yes no], got %v", bundle.Labels.Classes)
	}

	preds, err := PredictBundle(bundle, []models.Record{{"age": 23.0, "plan": "basic"}})
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}
	if len(preds) != 1 {
		t.Fatalf("Expected 1 prediction, got %d", len(preds))
	}
	if preds[0] != "yes" && preds[0] != "no" {
		t.Errorf("Prediction %v is not an original label", preds[0])
	}
}

// TestTrainModelRegression tests the regression path with more than 10
// distinct numeric target values
func TestTrainModelRegression(t *testing.T) {
	rows := make([]models.Record, 0, 12)
	for i := 1; i <= 12; i++ {
		x := float64(i)
		rows = append(rows, models.Record{"x": x, "y": 3*x + 1.5})
	}

	bundle, err := TrainModel("y", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}

	if bundle.Kind != models.ModelKindRegression {
		t.Fatalf("Expected regression, got %s", bundle.Kind)
	}

	preds, err := PredictBundle(bundle, []models.Record{{"x": 6.0}})
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}

	got, ok := preds[0].(float64)
	if !ok {
		t.Fatalf("Expected numeric prediction, got %T", preds[0])
	}
	if got < 18 || got > 21 {
		t.Errorf("Expected prediction near 19.5, got %v", got)
	}
}

// TestTrainModelCompoundColumn tests that a compound column trains
// successfully on the remaining features and never enters the schema
func TestTrainModelCompoundColumn(t *testing.T) {
	rows := []models.Record{
		{"tags": []interface{}{"a", "b"}, "score": 5.0, "label": 0.0},
		{"tags": []interface{}{"c"}, "score": 7.0, "label": 1.0},
		{"tags": []interface{}{"d"}, "score": 4.0, "label": 0.0},
		{"tags": []interface{}{"e"}, "score": 8.0, "label": 1.0},
	}

	bundle, err := TrainModel("label", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}

	if !reflect.DeepEqual(bundle.FeatureSchema, []string{"score"}) {
		t.Errorf("Expected schema [score], got %v", bundle.FeatureSchema)
	}
	for _, col := range bundle.FeatureSchema {
		if col == "tags" {
			t.Error("Compound column 'tags' leaked into the feature schema")
		}
	}
}

// TestTrainModelMissingTarget tests the terminal validation failure for
// an absent target column
func TestTrainModelMissingTarget(t *testing.T) {
	rows := []models.Record{{"age": 25.0}}

	_, err := TrainModel("churn", rows)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

// TestTrainModelTargetDroppedBySanitizer tests that a target column
// holding compound values fails validation after sanitization
func TestTrainModelTargetDroppedBySanitizer(t *testing.T) {
	rows := []models.Record{
		{"age": 25.0, "churn": []interface{}{"yes"}},
		{"age": 30.0, "churn": "no"},
	}

	_, err := TrainModel("churn", rows)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError for sanitized-away target, got %v", err)
	}
}

// TestTrainModelEmptySchema tests the terminal failure when no feature
// columns survive
func TestTrainModelEmptySchema(t *testing.T) {
	rows := []models.Record{
		{"churn": "yes"},
		{"churn": "no"},
	}

	_, err := TrainModel("churn", rows)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError for empty feature schema, got %v", err)
	}
}

// TestTrainModelNumericLabelsDecodeToNumbers tests that numeric class
// IDs decode back to numbers rather than strings
func TestTrainModelNumericLabelsDecodeToNumbers(t *testing.T) {
	rows := []models.Record{
		{"x": 1.0, "y": 0.0},
		{"x": 2.0, "y": 0.0},
		{"x": 9.0, "y": 1.0},
		{"x": 10.0, "y": 1.0},
	}

	bundle, err := TrainModel("y", rows)
	if err != nil {
		t.Fatalf("Training failed: %v", err)
	}
	if bundle.Kind != models.ModelKindClassification {
		t.Fatalf("Expected classification for binary numeric target, got %s", bundle.Kind)
	}

	preds, err := PredictBundle(bundle, []models.Record{{"x": 1.5}})
	if err != nil {
		t.Fatalf("Prediction failed: %v", err)
	}

	got, ok := preds[0].(float64)
	if !ok {
		t.Fatalf("Expected float64 prediction, got %T", preds[0])
	}
	if got != 0 && got != 1 {
		t.Errorf("Expected prediction in {0,1}, got %v", got)
	}
}
