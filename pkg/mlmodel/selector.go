package mlmodel

import (
	"github.com/predictia/predictia-go/pkg/dataset"
	"github.com/predictia/predictia-go/pkg/models"
)

// classificationThreshold is the maximum number of distinct numeric
// target values that still selects classification. Known heuristic
// carried over for compatibility: a genuine regression target with few
// distinct observed values in a small batch will be misclassified.
const classificationThreshold = 10

// DetectKind decides classification vs. regression from the target
// column's values. Non-numeric values (strings, booleans) force
// classification; otherwise a small set of distinct numeric values is
// treated as class IDs and anything larger as a continuous target.
// A missing value counts as one distinct value of its own, however
// often it occurs.
func DetectKind(targets []interface{}) models.ModelKind {
	distinct := make(map[float64]bool)
	missing := false
	for _, v := range targets {
		if v == nil {
			missing = true
			continue
		}
		switch v.(type) {
		case string, bool:
			// Strings are non-numeric here even when they would parse
			// as numbers; only genuinely numeric targets reach the
			// distinct-value count.
			return models.ModelKindClassification
		}
		n, ok := dataset.ToNumber(v)
		if !ok {
			return models.ModelKindClassification
		}
		distinct[n] = true
	}

	count := len(distinct)
	if missing {
		count++
	}
	if count <= classificationThreshold {
		return models.ModelKindClassification
	}
	return models.ModelKindRegression
}
