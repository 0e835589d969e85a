package catalog

import (
	"math"
	"strings"
	"time"

	"github.com/matst80/slask-catalog/pkg/types"
)

// Catalog is one loaded snapshot. It is never modified after NewCatalog,
// a reload produces a new Catalog.
type Catalog struct {
	Products   []types.Product       `json:"products"`
	Categories []types.CategoryCount `json:"categories"`
	PriceRange types.PriceRange      `json:"priceRange"`
	InStock    int                   `json:"inStock"`
	LoadedAt   time.Time             `json:"loadedAt"`
	nameIndex  map[string][]int
}

func NewCatalog(products []types.Product) *Catalog {
	if products == nil {
		products = []types.Product{}
	}
	for i := range products {
		products[i].Extra = products[i].Extra.Sanitize()
	}
	return &Catalog{
		Products:   products,
		Categories: Categories(products),
		PriceRange: PriceRangeOf(products),
		InStock:    InStockCount(products),
		LoadedAt:   time.Now(),
		nameIndex:  nameIndex(products),
	}
}

func (c *Catalog) Len() int {
	return len(c.Products)
}

// ByName returns the products whose name equals name, ignoring case.
func (c *Catalog) ByName(name string) []types.Product {
	idx := c.nameIndex[strings.ToLower(name)]
	ret := make([]types.Product, 0, len(idx))
	for _, i := range idx {
		ret = append(ret, c.Products[i])
	}
	return ret
}

// Categories counts products per category name in order of first appearance.
func Categories(products []types.Product) []types.CategoryCount {
	ret := make([]types.CategoryCount, 0)
	pos := make(map[string]int)
	for i := range products {
		name := products[i].Category
		if at, ok := pos[name]; ok {
			ret[at].Count++
			continue
		}
		pos[name] = len(ret)
		ret = append(ret, types.CategoryCount{Name: name, Count: 1})
	}
	return ret
}

// PriceRangeOf ignores products without a price. With no priced products
// the range is [0, 0].
func PriceRangeOf(products []types.Product) types.PriceRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range products {
		price := products[i].Extra.Price
		if price <= 0 {
			continue
		}
		lo = min(lo, price)
		hi = max(hi, price)
	}
	if math.IsInf(lo, 1) {
		return types.PriceRange{}
	}
	return types.PriceRange{Min: lo, Max: hi}
}

func InStockCount(products []types.Product) int {
	count := 0
	for i := range products {
		if products[i].InStock() {
			count++
		}
	}
	return count
}

func nameIndex(products []types.Product) map[string][]int {
	idx := make(map[string][]int, len(products))
	for i := range products {
		key := products[i].LowerName()
		idx[key] = append(idx[key], i)
	}
	return idx
}
