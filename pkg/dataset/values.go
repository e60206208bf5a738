package dataset

import (
	"strconv"

	"github.com/predictia/predictia-go/pkg/models"
)

// MissingToken is the fixed sentinel string that missing values
// stringify to before categorical encoding.
const MissingToken = "__MISSING__"

// ToNumber attempts to coerce a scalar value to a float64. Numeric
// strings count as numbers; booleans and nil do not.
func ToNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Stringify converts a scalar value to its categorical string form.
// Missing values map to MissingToken so they get a code of their own.
func Stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return MissingToken
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return MissingToken
}

// IsMissing reports whether a column value counts as missing: the key
// is absent from the row or holds nil.
func IsMissing(row models.Record, column string) bool {
	value, ok := row[column]
	return !ok || value == nil
}
