package engine

import (
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// Matches reports whether p passes every clause of c. The query is expected
// to be case-folded already, see types.FilterCriteria.Normalize.
func Matches(p *types.Product, c *types.FilterCriteria) bool {
	return matchesText(p, c) &&
		p.Extra.Price >= c.PriceMin && p.Extra.Price <= c.PriceMax &&
		p.Extra.Volume >= c.VolumeFrom && p.Extra.Volume <= c.VolumeTo &&
		(!c.StockOnly || p.Extra.Stock > 0) &&
		(len(c.Categories) == 0 || c.Categories.Has(p.Category))
}

func matchesText(p *types.Product, c *types.FilterCriteria) bool {
	if !c.HasQuery() {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), c.Query) ||
		strings.Contains(strings.ToLower(p.Id), c.Query) ||
		strings.Contains(strings.ToLower(p.Category), c.Query)
}

// Filter returns the matching products in input order.
func Filter(products []types.Product, criteria types.FilterCriteria) []types.Product {
	c := criteria.Normalize()
	result := make([]types.Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], &c) {
			result = append(result, products[i])
		}
	}
	return result
}

// Count is Filter without building the result.
func Count(products []types.Product, criteria types.FilterCriteria) int {
	c := criteria.Normalize()
	count := 0
	for i := range products {
		if Matches(&products[i], &c) {
			count++
		}
	}
	return count
}
