package utils

import (
	"encoding/json"
	"strconv"
)

// ToFloat converts the numeric shapes that show up in decoded JSON
// (float64 from encoding/json, the occasional quoted number) to float64.
func ToFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
