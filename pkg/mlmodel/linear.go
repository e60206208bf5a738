package mlmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ridge is a small regularization term added to the normal equations so
// the system stays solvable when features are collinear or constant.
const ridge = 1e-6

// LinearModel is a fitted linear regression: one weight per feature
// column plus an intercept. The persisted form is plain JSON.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitLinearRegression fits a least-squares linear model by solving the
// ridge-regularized normal equations (X'X + rI)w = X'y.
func FitLinearRegression(features [][]float64, targets []float64) (*LinearModel, error) {
	rows := len(features)
	if rows == 0 {
		return nil, fmt.Errorf("no training rows")
	}
	cols := len(features[0])
	if cols == 0 {
		return nil, fmt.Errorf("no feature columns")
	}

	// Design matrix with a trailing column of ones for the intercept.
	width := cols + 1
	data := make([]float64, rows*width)
	for i, row := range features {
		copy(data[i*width:], row)
		data[i*width+cols] = 1
	}
	x := mat.NewDense(rows, width, data)
	y := mat.NewDense(rows, 1, append([]float64(nil), targets...))

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < width; i++ {
		xtx.Set(i, i, xtx.At(i, i)+ridge)
	}

	var xty mat.Dense
	xty.Mul(x.T(), y)

	var theta mat.Dense
	if err := theta.Solve(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("failed to solve normal equations: %w", err)
	}

	model := &LinearModel{Weights: make([]float64, cols)}
	for j := 0; j < cols; j++ {
		model.Weights[j] = theta.At(j, 0)
	}
	model.Intercept = theta.At(cols, 0)

	return model, nil
}

// Predict returns one regression output per input row.
func (m *LinearModel) Predict(features [][]float64) []float64 {
	out := make([]float64, len(features))
	for i, row := range features {
		sum := m.Intercept
		for j, w := range m.Weights {
			if j < len(row) {
				sum += w * row[j]
			}
		}
		out[i] = sum
	}
	return out
}
