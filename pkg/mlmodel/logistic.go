package mlmodel

import (
	"fmt"
	"math"
)

// Training hyperparameters for the logistic model. Batch gradient
// descent over standardized features converges well inside these
// bounds for the batch sizes this service handles.
const (
	logisticEpochs       = 500
	logisticLearningRate = 0.1
)

// LogisticModel is a fitted multinomial logistic regression. Weights is
// classes x features; inputs are standardized with the stored per-column
// means and scales before scoring, so inference replays training
// exactly. The persisted form is plain JSON.
type LogisticModel struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	Means      []float64   `json:"means"`
	Scales     []float64   `json:"scales"`
}

// FitLogisticRegression fits a softmax classifier over dense class
// codes [0, numClasses) by full-batch gradient descent.
func FitLogisticRegression(features [][]float64, classes []int, numClasses int) (*LogisticModel, error) {
	rows := len(features)
	if rows == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	cols := len(features[0])
	if cols == 0 {
		return nil, fmt.Errorf("no feature columns")
	}
	if len(classes) != rows {
		return nil, fmt.Errorf("feature/label row count mismatch: %d vs %d", rows, len(classes))
	}
	if numClasses < 1 {
		return nil, fmt.Errorf("need at least one class, got %d", numClasses)
	}

	model := &LogisticModel{
		Weights:    newRows(numClasses, cols),
		Intercepts: make([]float64, numClasses),
	}
	model.Means, model.Scales = standardStats(features)

	scaled := make([][]float64, rows)
	for i, row := range features {
		scaled[i] = model.standardize(row)
	}

	gradW := newRows(numClasses, cols)
	gradB := make([]float64, numClasses)

	for epoch := 0; epoch < logisticEpochs; epoch++ {
		for k := range gradW {
			for j := range gradW[k] {
				gradW[k][j] = 0
			}
			gradB[k] = 0
		}

		for i, row := range scaled {
			probs := model.probabilities(row)
			for k := 0; k < numClasses; k++ {
				d := probs[k]
				if k == classes[i] {
					d -= 1
				}
				for j, x := range row {
					gradW[k][j] += d * x
				}
				gradB[k] += d
			}
		}

		step := logisticLearningRate / float64(rows)
		for k := 0; k < numClasses; k++ {
			for j := 0; j < cols; j++ {
				model.Weights[k][j] -= step * gradW[k][j]
			}
			model.Intercepts[k] -= step * gradB[k]
		}
	}

	return model, nil
}

// Predict returns the most probable class code for each input row.
func (m *LogisticModel) Predict(features [][]float64) []int {
	out := make([]int, len(features))
	for i, row := range features {
		probs := m.probabilities(m.standardize(row))
		best := 0
		for k, p := range probs {
			if p > probs[best] {
				best = k
			}
		}
		out[i] = best
	}
	return out
}

// probabilities computes the softmax class distribution for one
// standardized row.
func (m *LogisticModel) probabilities(row []float64) []float64 {
	logits := make([]float64, len(m.Weights))
	max := math.Inf(-1)
	for k, weights := range m.Weights {
		sum := m.Intercepts[k]
		for j, w := range weights {
			if j < len(row) {
				sum += w * row[j]
			}
		}
		logits[k] = sum
		if sum > max {
			max = sum
		}
	}

	total := 0.0
	for k, logit := range logits {
		logits[k] = math.Exp(logit - max)
		total += logits[k]
	}
	for k := range logits {
		logits[k] /= total
	}
	return logits
}

// standardize rescales one raw feature row with the stored statistics.
func (m *LogisticModel) standardize(row []float64) []float64 {
	out := make([]float64, len(m.Means))
	for j := range out {
		if j < len(row) {
			out[j] = (row[j] - m.Means[j]) / m.Scales[j]
		}
	}
	return out
}

// standardStats computes per-column mean and standard deviation over
// the training matrix. Constant columns get scale 1 so division is
// always defined.
func standardStats(features [][]float64) (means, scales []float64) {
	rows := len(features)
	cols := len(features[0])
	means = make([]float64, cols)
	scales = make([]float64, cols)

	for _, row := range features {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}

	for _, row := range features {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / float64(rows))
		if scales[j] == 0 {
			scales[j] = 1
		}
	}

	return means, scales
}

func newRows(n, cols int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}
