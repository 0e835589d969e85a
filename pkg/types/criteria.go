package types

import (
	"maps"
	"math"
	"slices"
	"strings"
)

type CategorySet map[string]struct{}

func NewCategorySet(names ...string) CategorySet {
	s := make(CategorySet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

func (s CategorySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s CategorySet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// FilterCriteria describes one filter request. Treat it as a value: the
// engine never mutates it.
type FilterCriteria struct {
	Query      string
	PriceMin   float64
	PriceMax   float64
	VolumeFrom float64
	VolumeTo   float64
	StockOnly  bool
	Categories CategorySet
}

// NewFilterCriteria returns criteria that accept every product.
func NewFilterCriteria() FilterCriteria {
	return FilterCriteria{
		PriceMax:   math.Inf(1),
		VolumeTo:   math.Inf(1),
		Categories: CategorySet{},
	}
}

func lowerBound(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func upperBound(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// Normalize folds the query and replaces malformed bounds with the widest
// bound so an unset field never excludes anything.
func (c FilterCriteria) Normalize() FilterCriteria {
	c.Query = strings.ToLower(c.Query)
	c.PriceMin = lowerBound(c.PriceMin)
	c.PriceMax = upperBound(c.PriceMax)
	c.VolumeFrom = lowerBound(c.VolumeFrom)
	c.VolumeTo = upperBound(c.VolumeTo)
	if c.Categories == nil {
		c.Categories = CategorySet{}
	}
	return c
}

// HasQuery reports if the text clause is active.
func (c *FilterCriteria) HasQuery() bool {
	return strings.TrimSpace(c.Query) != ""
}

func (c *FilterCriteria) IsIdentity() bool {
	return !c.HasQuery() &&
		c.PriceMin <= 0 && math.IsInf(c.PriceMax, 1) &&
		c.VolumeFrom <= 0 && math.IsInf(c.VolumeTo, 1) &&
		!c.StockOnly && len(c.Categories) == 0
}
