package mlmodel

import (
	"fmt"

	"github.com/predictia/predictia-go/pkg/dataset"
	"github.com/predictia/predictia-go/pkg/models"
)

// TrainModel runs the full training pipeline over a raw batch: drops
// compound columns, fixes the feature schema, encodes features, decides
// the problem kind from the target column, fits the chosen model and
// returns the bundle. Failures are terminal for the attempt; no partial
// state escapes this function.
func TrainModel(targetColumn string, rows []models.Record) (*ModelBundle, error) {
	sanitized := dataset.DropCompoundColumns(rows)

	if !dataset.HasColumn(sanitized, targetColumn) {
		return nil, &models.ValidationError{
			Reason: fmt.Sprintf("target column %q not found", targetColumn),
		}
	}

	schema := dataset.FeatureSchema(sanitized, targetColumn)
	if len(schema) == 0 {
		return nil, &models.ValidationError{
			Reason: "feature matrix has zero columns after sanitization",
		}
	}

	features, encoders, err := dataset.Fit(sanitized, schema)
	if err != nil {
		return nil, err
	}

	targets := make([]interface{}, len(sanitized))
	for i, row := range sanitized {
		targets[i] = row[targetColumn]
	}

	bundle := &ModelBundle{
		TargetColumn:  targetColumn,
		FeatureSchema: schema,
		Encoders:      encoders,
	}

	switch kind := DetectKind(targets); kind {
	case models.ModelKindClassification:
		codec := NewLabelCodec(targets)
		classes := make([]int, len(targets))
		for i, v := range targets {
			code, ok := codec.Encode(v)
			if !ok {
				return nil, &models.EncodingError{
					Column: targetColumn,
					Reason: fmt.Sprintf("label %v missing from freshly fitted codec", v),
				}
			}
			classes[i] = code
		}

		logistic, err := FitLogisticRegression(features, classes, codec.Len())
		if err != nil {
			return nil, fmt.Errorf("failed to fit classifier: %w", err)
		}
		bundle.Kind = kind
		bundle.Labels = codec
		bundle.Logistic = logistic

	case models.ModelKindRegression:
		numeric := make([]float64, len(targets))
		for i, v := range targets {
			if n, ok := dataset.ToNumber(v); ok {
				numeric[i] = n
			}
		}

		linear, err := FitLinearRegression(features, numeric)
		if err != nil {
			return nil, fmt.Errorf("failed to fit regressor: %w", err)
		}
		bundle.Kind = kind
		bundle.Linear = linear
	}

	return bundle, nil
}
