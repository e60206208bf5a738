package mlmodel

import (
	"fmt"

	"github.com/predictia/predictia-go/pkg/dataset"
	"github.com/predictia/predictia-go/pkg/models"
)

// ModelBundle is the persisted artifact combining a fitted model with
// everything needed to replay its training-time encoding: the feature
// schema, the per-column encoders and, for classification, the target
// label codec. Immutable once written; a fresh bundle is only produced
// by a successful training run.
type ModelBundle struct {
	Kind          models.ModelKind                   `json:"kind"`
	TargetColumn  string                             `json:"target_col"`
	FeatureSchema []string                           `json:"feature_schema"`
	Encoders      map[string]*dataset.ColumnEncoding `json:"encoders"`
	Labels        *LabelCodec                        `json:"labels,omitempty"`
	Linear        *LinearModel                       `json:"linear,omitempty"`
	Logistic      *LogisticModel                     `json:"logistic,omitempty"`
}

// Validate checks the bundle's internal consistency after loading.
func (b *ModelBundle) Validate() error {
	switch b.Kind {
	case models.ModelKindClassification:
		if b.Logistic == nil || b.Labels == nil {
			return fmt.Errorf("classification bundle missing model or label codec")
		}
	case models.ModelKindRegression:
		if b.Linear == nil {
			return fmt.Errorf("regression bundle missing model")
		}
	default:
		return fmt.Errorf("unknown bundle kind: %q", b.Kind)
	}
	if len(b.FeatureSchema) == 0 {
		return fmt.Errorf("bundle has empty feature schema")
	}
	return nil
}

// Rehydrate rebuilds the derived lookups the JSON form omits.
func (b *ModelBundle) Rehydrate() {
	for _, enc := range b.Encoders {
		enc.Rehydrate()
	}
	if b.Labels != nil {
		b.Labels.Rehydrate()
	}
}
