package dataset

import "github.com/predictia/predictia-go/pkg/models"

// IsScalar reports whether a value is flat (string, number, boolean or
// nil) as opposed to a compound value (array or object).
func IsScalar(value interface{}) bool {
	switch value.(type) {
	case nil, string, bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		return true
	}
	return false
}

// DropCompoundColumns removes every column that holds a compound value
// (array or object) in any row of the batch. The column is removed from
// all rows, including rows where it happened to hold a scalar: a
// column's type must be uniform across the whole batch, and partial
// removal would silently change the schema row by row.
//
// Scalar-only columns, including those with nil or absent values, are
// preserved untouched. Never fails; an empty result surfaces downstream
// when the feature matrix turns out empty.
func DropCompoundColumns(rows []models.Record) []models.Record {
	if len(rows) == 0 {
		return rows
	}

	dropped := make(map[string]bool)
	for _, row := range rows {
		for col, value := range row {
			if !IsScalar(value) {
				dropped[col] = true
			}
		}
	}

	if len(dropped) == 0 {
		return rows
	}

	cleaned := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out := make(models.Record, len(row))
		for col, value := range row {
			if !dropped[col] {
				out[col] = value
			}
		}
		cleaned = append(cleaned, out)
	}

	return cleaned
}
