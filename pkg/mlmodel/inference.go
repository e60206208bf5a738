package mlmodel

import (
	"fmt"

	"github.com/predictia/predictia-go/pkg/dataset"
	"github.com/predictia/predictia-go/pkg/models"
)

// PredictBundle scores a batch of rows against a loaded bundle. It runs
// the sanitizer, replays the stored encoders over the bundle's schema
// and decodes classification outputs back to their original label
// values. Regression outputs pass through as numbers unchanged. The
// bundle is read-only throughout; repeated calls on identical input
// yield identical results.
func PredictBundle(bundle *ModelBundle, rows []models.Record) ([]interface{}, error) {
	sanitized := dataset.DropCompoundColumns(rows)

	features, err := dataset.Transform(sanitized, bundle.FeatureSchema, bundle.Encoders)
	if err != nil {
		return nil, err
	}

	switch bundle.Kind {
	case models.ModelKindClassification:
		codes := bundle.Logistic.Predict(features)
		out := make([]interface{}, len(codes))
		for i, code := range codes {
			label, err := bundle.Labels.Decode(code)
			if err != nil {
				return nil, fmt.Errorf("failed to decode prediction: %w", err)
			}
			out[i] = label
		}
		return out, nil

	case models.ModelKindRegression:
		values := bundle.Linear.Predict(features)
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = v
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: unknown bundle kind %q", models.ErrBundleMissing, bundle.Kind)
}
