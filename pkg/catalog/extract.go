package catalog

import (
	"maps"
	"slices"

	"github.com/matst80/slask-catalog/pkg/types"
)

// ExtractExtra finds the price, stock and volume measures in a product
// payload. Nested objects are searched first (in key order) and the first
// one carrying a non-zero measure wins; otherwise the top level PRI, LGA and
// VOL keys are used. Missing or malformed values become 0.
func ExtractExtra(extra any) types.Extra {
	switch v := extra.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			if !isContainer(v[key]) {
				continue
			}
			if found := ExtractExtra(v[key]); !found.IsZero() {
				return found
			}
		}
		return types.Extra{
			Price:  types.ParseNumber(v["PRI"]),
			Stock:  types.ParseNumber(v["LGA"]),
			Volume: types.ParseNumber(v["VOL"]),
		}
	case []any:
		for _, item := range v {
			if found := ExtractExtra(item); !found.IsZero() {
				return found
			}
		}
	}
	return types.Extra{}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
