package dataset

import (
	"github.com/predictia/predictia-go/pkg/models"
)

// EncodingKind tags how a column is converted to numbers
type EncodingKind string

const (
	EncodingNumeric     EncodingKind = "numeric"
	EncodingCategorical EncodingKind = "categorical"
)

// UnseenCode is the reserved sentinel code for categorical values never
// seen at training time. It is distinct from every trained code, which
// are dense non-negative integers.
const UnseenCode = -1

// ColumnEncoding is the per-column transformation state, resolved once
// at fit time and stored immutably in the model bundle. Numeric columns
// pass through with coercion; categorical columns carry their ordered
// codebook in Classes, where a value's code is its index.
type ColumnEncoding struct {
	Kind    EncodingKind `json:"kind"`
	Classes []string     `json:"classes,omitempty"`

	index map[string]int
}

// Code returns the dense integer code for a categorical value, or
// UnseenCode if the value was not in the training codebook.
func (e *ColumnEncoding) Code(value string) int {
	if e.index == nil {
		e.Rehydrate()
	}
	code, ok := e.index[value]
	if !ok {
		return UnseenCode
	}
	return code
}

// Rehydrate rebuilds the codebook lookup after JSON deserialization.
func (e *ColumnEncoding) Rehydrate() {
	e.index = make(map[string]int, len(e.Classes))
	for i, class := range e.Classes {
		e.index[class] = i
	}
}

// Fit builds the numeric feature matrix for a sanitized training batch
// and the per-column encoders needed to repeat the conversion later.
// For each schema column: if every non-missing value coerces to a
// number, the column passes through numerically (failed parses and
// missing values become 0); otherwise the distinct stringified values
// are assigned dense codes in first-occurrence order. Output column
// order follows the schema.
func Fit(rows []models.Record, schema []string) ([][]float64, map[string]*ColumnEncoding, error) {
	encoders := make(map[string]*ColumnEncoding, len(schema))
	matrix := newMatrix(len(rows), len(schema))

	for j, col := range schema {
		enc, err := fitColumn(rows, col)
		if err != nil {
			return nil, nil, err
		}
		encoders[col] = enc
		fillColumn(matrix, rows, col, j, enc)
	}

	return matrix, encoders, nil
}

// Transform replays stored encoders against a new batch, producing a
// matrix with the same column layout as training. It never mutates
// encoder state: calling it twice on identical input yields identical
// output. A schema column absent from every row of the batch is
// synthesized with a zero default and then run through its stored
// rule; input columns outside the schema are ignored.
func Transform(rows []models.Record, schema []string, encoders map[string]*ColumnEncoding) ([][]float64, error) {
	matrix := newMatrix(len(rows), len(schema))

	for j, col := range schema {
		enc, ok := encoders[col]
		if !ok {
			// No stored rule: synthesize zeros, same as a numeric
			// column with all values missing.
			continue
		}
		if err := checkColumnScalars(rows, col); err != nil {
			return nil, err
		}
		if !HasColumn(rows, col) {
			fillDefaultColumn(matrix, j, enc)
			continue
		}
		fillColumn(matrix, rows, col, j, enc)
	}

	return matrix, nil
}

// fitColumn resolves a single column's encoding from the training batch.
func fitColumn(rows []models.Record, col string) (*ColumnEncoding, error) {
	if err := checkColumnScalars(rows, col); err != nil {
		return nil, err
	}

	numeric := true
	for _, row := range rows {
		if IsMissing(row, col) {
			continue
		}
		if _, ok := ToNumber(row[col]); !ok {
			numeric = false
			break
		}
	}

	if numeric {
		return &ColumnEncoding{Kind: EncodingNumeric}, nil
	}

	enc := &ColumnEncoding{
		Kind:  EncodingCategorical,
		index: make(map[string]int),
	}
	for _, row := range rows {
		value := Stringify(row[col])
		if _, ok := enc.index[value]; !ok {
			enc.index[value] = len(enc.Classes)
			enc.Classes = append(enc.Classes, value)
		}
	}

	return enc, nil
}

// fillColumn writes one encoded column into the matrix.
func fillColumn(matrix [][]float64, rows []models.Record, col string, j int, enc *ColumnEncoding) {
	for i, row := range rows {
		switch enc.Kind {
		case EncodingCategorical:
			matrix[i][j] = float64(enc.Code(Stringify(row[col])))
		default:
			n, ok := ToNumber(row[col])
			if !ok {
				n = 0
			}
			matrix[i][j] = n
		}
	}
}

// fillDefaultColumn writes the encoding of the zero default for a
// schema column the batch omits entirely. The default is the value 0
// run through the stored rule: numeric columns stay at 0, categorical
// columns get "0"'s trained code or the unseen sentinel. The missing
// token is reserved for rows that omit a column other rows carry, so
// it never applies here.
func fillDefaultColumn(matrix [][]float64, j int, enc *ColumnEncoding) {
	var value float64
	if enc.Kind == EncodingCategorical {
		value = float64(enc.Code(Stringify(float64(0))))
	}
	for i := range matrix {
		matrix[i][j] = value
	}
}

// checkColumnScalars guards against compound values reaching the
// encoder. The sanitizer removes them for whole batches, so hitting
// this is a logic defect, not a caller error.
func checkColumnScalars(rows []models.Record, col string) error {
	for _, row := range rows {
		if value, ok := row[col]; ok && !IsScalar(value) {
			return &models.EncodingError{Column: col, Reason: "compound value survived sanitization"}
		}
	}
	return nil
}

func newMatrix(rows, cols int) [][]float64 {
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = make([]float64, cols)
	}
	return matrix
}
