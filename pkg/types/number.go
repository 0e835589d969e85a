package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SanitizeNumber maps NaN, infinities and negative values to 0.
func SanitizeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseNumber coerces loosely typed catalog values into a measure. Anything
// that is not a number or a string holding one becomes 0.
func ParseNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return SanitizeNumber(v)
	case float32:
		return SanitizeNumber(float64(v))
	case int:
		return SanitizeNumber(float64(v))
	case int64:
		return SanitizeNumber(float64(v))
	case int32:
		return SanitizeNumber(float64(v))
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case uint32:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return SanitizeNumber(f)
	case string:
		f, ok := ParseFloat(v)
		if !ok {
			return 0
		}
		return SanitizeNumber(f)
	}
	return 0
}

// ParseFloat parses a trimmed string. The whole string has to be a number.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
