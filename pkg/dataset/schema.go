package dataset

import (
	"sort"

	"github.com/predictia/predictia-go/pkg/models"
)

// FeatureSchema returns the ordered list of feature column names for a
// sanitized batch: the union of column names across all rows, minus the
// target column. Go maps do not preserve key order, so the schema is
// sorted lexicographically to make it deterministic; the resulting
// order is fixed in the bundle at training time and replayed verbatim
// at inference time.
func FeatureSchema(rows []models.Record, targetColumn string) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			if col != targetColumn {
				seen[col] = true
			}
		}
	}

	schema := make([]string, 0, len(seen))
	for col := range seen {
		schema = append(schema, col)
	}
	sort.Strings(schema)

	return schema
}

// HasColumn reports whether any row in the batch carries the column.
func HasColumn(rows []models.Record, column string) bool {
	for _, row := range rows {
		if _, ok := row[column]; ok {
			return true
		}
	}
	return false
}
