package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// ResolveColumn walks a dotted path into the product. Unknown segments resolve
// to an empty string.
func ResolveColumn(p *types.Product, path string) any {
	head, rest, nested := strings.Cut(path, ".")
	switch head {
	case "id":
		if !nested {
			return p.Id
		}
	case "name":
		if !nested {
			return p.Name
		}
	case "category":
		if !nested {
			return p.Category
		}
	case "extra":
		if !nested {
			return ""
		}
		switch rest {
		case "PRI", "price":
			return p.Extra.Price
		case "LGA", "stock":
			return p.Extra.Stock
		case "VOL", "volume":
			return p.Extra.Volume
		}
	}
	return ""
}

// asNumber treats numbers and strings that fully parse as numeric. A blank
// string counts as 0.
func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.ToLower(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// Compare returns +1 when a > b and -1 otherwise. Equal values are not
// reported as ties, so sorting with it is not stable.
func Compare(a, b any) int {
	if na, ok := asNumber(a); ok {
		if nb, ok := asNumber(b); ok {
			if na > nb {
				return 1
			}
			return -1
		}
	}
	if asString(a) > asString(b) {
		return 1
	}
	return -1
}

// Sort orders products in place. An unset column keeps insertion order.
func Sort(products []types.Product, sort types.SortCriteria) {
	if !sort.IsSet() || len(products) < 2 {
		return
	}
	sign := 1
	if sort.Direction == types.Descending {
		sign = -1
	}
	slices.SortFunc(products, func(a, b types.Product) int {
		return sign * Compare(ResolveColumn(&a, sort.Column), ResolveColumn(&b, sort.Column))
	})
}

// SortState tracks the column picked by the user.
type SortState struct {
	types.SortCriteria
}

// Select toggles the direction when column is already selected, otherwise it
// switches to column with its default direction.
func (s *SortState) Select(column string) types.SortCriteria {
	if s.Column == column {
		s.Direction = s.Direction.Toggle()
	} else {
		s.Column = column
		s.Direction = types.DefaultDirection(column)
	}
	return s.SortCriteria
}
