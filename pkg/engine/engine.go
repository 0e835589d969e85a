package engine

import (
	"bytes"
	"math"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

// Request is the message handed to the isolated execution context. Bounds are
// optional, a nil bound means the widest possible range.
type Request struct {
	Products      []types.Product     `json:"products"`
	Query         string              `json:"query"`
	PriceMin      *float64            `json:"priceMin,omitempty"`
	PriceMax      *float64            `json:"priceMax,omitempty"`
	VolumeFrom    *float64            `json:"volumeFrom,omitempty"`
	VolumeTo      *float64            `json:"volumeTo,omitempty"`
	StockOnly     bool                `json:"stockOnly"`
	Categories    []string            `json:"categories"`
	SortColumn    string              `json:"sortColumn"`
	SortDirection types.SortDirection `json:"sortDirection"`
	CountOnly     bool                `json:"countOnly,omitempty"`
}

func bound(v *float64) *float64 {
	if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
		return nil
	}
	r := *v
	return &r
}

// NewRequest builds a request for the given snapshot. Infinite bounds are
// left out of the message.
func NewRequest(products []types.Product, c types.FilterCriteria, s types.SortCriteria) Request {
	return Request{
		Products:      products,
		Query:         c.Query,
		PriceMin:      bound(&c.PriceMin),
		PriceMax:      bound(&c.PriceMax),
		VolumeFrom:    bound(&c.VolumeFrom),
		VolumeTo:      bound(&c.VolumeTo),
		StockOnly:     c.StockOnly,
		Categories:    c.Categories.Names(),
		SortColumn:    s.Column,
		SortDirection: s.Direction,
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func (r *Request) Criteria() types.FilterCriteria {
	return types.FilterCriteria{
		Query:      r.Query,
		PriceMin:   valueOr(r.PriceMin, 0),
		PriceMax:   valueOr(r.PriceMax, math.Inf(1)),
		VolumeFrom: valueOr(r.VolumeFrom, 0),
		VolumeTo:   valueOr(r.VolumeTo, math.Inf(1)),
		StockOnly:  r.StockOnly,
		Categories: types.NewCategorySet(r.Categories...),
	}.Normalize()
}

func (r *Request) Sort() types.SortCriteria {
	return types.SortCriteria{
		Column:    r.SortColumn,
		Direction: r.SortDirection,
	}
}

type Response struct {
	Products  []types.Product `json:"filteredProducts"`
	Count     int             `json:"filteredCount"`
	CountOnly bool            `json:"countOnly,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare product array.
func (r *Response) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var products []types.Product
		if err := jsoncompat.Unmarshal(data, &products); err != nil {
			return err
		}
		*r = Response{Products: products, Count: len(products)}
		return nil
	}
	type plain Response
	var p plain
	if err := jsoncompat.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Response(p)
	if !r.CountOnly && r.Count == 0 {
		r.Count = len(r.Products)
	}
	return nil
}

// Execute filters the snapshot and, unless only a count was asked for, sorts
// the survivors. The request's product slice is never modified.
func Execute(req Request) Response {
	criteria := req.Criteria()
	if req.CountOnly {
		return Response{Count: Count(req.Products, criteria), CountOnly: true}
	}
	filtered := Filter(req.Products, criteria)
	Sort(filtered, req.Sort())
	return Response{Products: filtered, Count: len(filtered)}
}
