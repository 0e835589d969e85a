package engine

import (
	"fmt"
	"math"
	"testing"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []types.Product {
	return []types.Product{
		{Id: "a1", Name: "Widget", Category: "Tools", Extra: types.Extra{Price: 10, Stock: 5, Volume: 2}},
		{Id: "a2", Name: "Gadget", Category: "Tools", Extra: types.Extra{Price: 0, Stock: 0, Volume: 0}},
	}
}

func ids(products []types.Product) []string {
	ret := make([]string, len(products))
	for i, p := range products {
		ret[i] = p.Id
	}
	return ret
}

func withCriteria(fn func(c *types.FilterCriteria)) types.FilterCriteria {
	c := types.NewFilterCriteria()
	fn(&c)
	return c
}

func TestIdentityFilterAcceptsEverything(t *testing.T) {
	products := sampleProducts()
	products = append(products, types.Product{Id: "x", Name: "", Category: ""})
	c := types.NewFilterCriteria()
	assert.True(t, c.IsIdentity())
	assert.Equal(t, ids(products), ids(Filter(products, c)))
	assert.Equal(t, len(products), Count(products, c))
}

func TestStockOnly(t *testing.T) {
	result := Execute(NewRequest(sampleProducts(), withCriteria(func(c *types.FilterCriteria) {
		c.StockOnly = true
	}), types.SortCriteria{}))
	assert.Equal(t, []string{"a1"}, ids(result.Products))
	assert.Equal(t, 1, result.Count)
}

func TestQueryMatchesAnyField(t *testing.T) {
	cases := []struct {
		query    string
		expected []string
	}{
		{"wid", []string{"a1"}},
		{"TOOLS", []string{"a1", "a2"}},
		{"A2", []string{"a2"}},
		{"   ", []string{"a1", "a2"}},
		{"", []string{"a1", "a2"}},
		{"nothing", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			result := Execute(NewRequest(sampleProducts(), withCriteria(func(c *types.FilterCriteria) {
				c.Query = tc.query
			}), types.SortCriteria{}))
			assert.Equal(t, tc.expected, ids(result.Products))
			assert.Equal(t, len(tc.expected), result.Count)
		})
	}
}

func TestRangesAreInclusive(t *testing.T) {
	products := sampleProducts()
	c := withCriteria(func(c *types.FilterCriteria) {
		c.PriceMin = 10
		c.PriceMax = 10
	})
	assert.Equal(t, []string{"a1"}, ids(Filter(products, c)))

	c = withCriteria(func(c *types.FilterCriteria) {
		c.VolumeFrom = 0
		c.VolumeTo = 0
	})
	assert.Equal(t, []string{"a2"}, ids(Filter(products, c)))
}

func TestCategoryMembership(t *testing.T) {
	products := append(sampleProducts(), types.Product{Id: "b1", Name: "Hammer", Category: "Hardware"})
	c := withCriteria(func(c *types.FilterCriteria) {
		c.Categories = types.NewCategorySet("Hardware")
	})
	assert.Equal(t, []string{"b1"}, ids(Filter(products, c)))

	c.Categories = types.CategorySet{}
	assert.Len(t, Filter(products, c), 3)
}

func TestMalformedBoundsUseWidestRange(t *testing.T) {
	c := types.FilterCriteria{
		PriceMin:   math.NaN(),
		PriceMax:   math.NaN(),
		VolumeFrom: -4,
		VolumeTo:   math.NaN(),
	}
	assert.Len(t, Filter(sampleProducts(), c), 2)
}

func TestFilterIsIdempotent(t *testing.T) {
	products := append(sampleProducts(),
		types.Product{Id: "c1", Name: "Wide board", Category: "Wood", Extra: types.Extra{Price: 40, Stock: 1, Volume: 8}},
		types.Product{Id: "c2", Name: "Widget XL", Category: "Tools", Extra: types.Extra{Price: 120, Stock: 2, Volume: 3}},
	)
	c := withCriteria(func(c *types.FilterCriteria) {
		c.Query = "wid"
		c.PriceMax = 100
		c.StockOnly = true
	})
	once := Filter(products, c)
	assert.Equal(t, ids(once), ids(Filter(once, c)))
	assert.Equal(t, []string{"a1", "c1"}, ids(once))
}

func TestEmptyCollection(t *testing.T) {
	result := Execute(Request{})
	assert.Empty(t, result.Products)
	assert.NotNil(t, result.Products)
	assert.Equal(t, 0, result.Count)

	count := Execute(Request{CountOnly: true})
	assert.Equal(t, 0, count.Count)
	assert.True(t, count.CountOnly)
}

func TestSortByPriceToggles(t *testing.T) {
	products := []types.Product{
		{Id: "p10", Extra: types.Extra{Price: 10}},
		{Id: "p0", Extra: types.Extra{Price: 0}},
	}
	state := SortState{}
	Sort(products, state.Select(types.ColumnPrice))
	assert.Equal(t, []string{"p0", "p10"}, ids(products))

	Sort(products, state.Select(types.ColumnPrice))
	assert.Equal(t, types.Descending, state.Direction)
	assert.Equal(t, []string{"p10", "p0"}, ids(products))
}

func TestSortStateDefaults(t *testing.T) {
	state := SortState{}
	assert.Equal(t, types.Descending, state.Select(types.ColumnStock).Direction)
	assert.Equal(t, types.Ascending, state.Select(types.ColumnStock).Direction)
	assert.Equal(t, types.Ascending, state.Select(types.ColumnName).Direction)
	assert.Equal(t, types.Descending, state.Select(types.ColumnName).Direction)
	// switching column resets to the column default
	assert.Equal(t, types.Descending, state.Select(types.ColumnStock).Direction)
}

func TestSortStringsCaseInsensitive(t *testing.T) {
	products := []types.Product{
		{Id: "1", Name: "banana"},
		{Id: "2", Name: "Apple"},
		{Id: "3", Name: "cherry"},
	}
	Sort(products, types.SortCriteria{Column: types.ColumnName, Direction: types.Ascending})
	assert.Equal(t, []string{"2", "1", "3"}, ids(products))
}

func TestSortNumericStrings(t *testing.T) {
	products := []types.Product{{Id: "10"}, {Id: "9"}, {Id: "100"}}
	Sort(products, types.SortCriteria{Column: types.ColumnId, Direction: types.Ascending})
	assert.Equal(t, []string{"9", "10", "100"}, ids(products))
}

func TestSortWithoutColumnKeepsOrder(t *testing.T) {
	products := []types.Product{{Id: "b"}, {Id: "a"}}
	Sort(products, types.SortCriteria{})
	assert.Equal(t, []string{"b", "a"}, ids(products))
}

func TestResolveColumn(t *testing.T) {
	p := &types.Product{Id: "a", Name: "n", Category: "c", Extra: types.Extra{Price: 1, Stock: 2, Volume: 3}}
	assert.Equal(t, 1.0, ResolveColumn(p, "extra.PRI"))
	assert.Equal(t, 2.0, ResolveColumn(p, "extra.stock"))
	assert.Equal(t, 3.0, ResolveColumn(p, "extra.VOL"))
	assert.Equal(t, "n", ResolveColumn(p, "name"))
	assert.Equal(t, "", ResolveColumn(p, "extra.missing"))
	assert.Equal(t, "", ResolveColumn(p, "name.length"))
	assert.Equal(t, "", ResolveColumn(p, "unknown"))
}

func TestCompareHasNoTies(t *testing.T) {
	// equal values compare as less in both directions, the order of equal
	// rows is therefore not preserved between sorts
	assert.Equal(t, -1, Compare(1.0, 1.0))
	assert.Equal(t, -1, Compare("a", "A"))
	assert.Equal(t, 1, Compare("b", "A"))
	assert.Equal(t, 1, Compare(2.0, "1.5"))
	assert.Equal(t, -1, Compare("", 3.0))
}

func TestSortedOutputIsOrdered(t *testing.T) {
	products := make([]types.Product, 0, 200)
	for i := range 200 {
		products = append(products, types.Product{
			Id:    fmt.Sprintf("p%d", i),
			Extra: types.Extra{Price: float64((i * 37) % 23)},
		})
	}
	Sort(products, types.SortCriteria{Column: types.ColumnPrice, Direction: types.Descending})
	for i := 1; i < len(products); i++ {
		assert.GreaterOrEqual(t, products[i-1].Extra.Price, products[i].Extra.Price)
	}
}

func TestExecuteDoesNotMutateSnapshot(t *testing.T) {
	products := []types.Product{
		{Id: "b", Extra: types.Extra{Price: 2}},
		{Id: "a", Extra: types.Extra{Price: 1}},
	}
	result := Execute(NewRequest(products, types.NewFilterCriteria(), types.SortCriteria{Column: types.ColumnPrice, Direction: types.Ascending}))
	assert.Equal(t, []string{"a", "b"}, ids(result.Products))
	assert.Equal(t, []string{"b", "a"}, ids(products))
}

func TestRequestOmitsInfiniteBounds(t *testing.T) {
	req := NewRequest(nil, types.NewFilterCriteria(), types.SortCriteria{})
	assert.Nil(t, req.PriceMax)
	assert.Nil(t, req.VolumeTo)
	require.NotNil(t, req.PriceMin)

	data, err := jsoncompat.Marshal(req)
	require.NoError(t, err)
	var decoded Request
	require.NoError(t, jsoncompat.Unmarshal(data, &decoded))
	c := decoded.Criteria()
	assert.True(t, math.IsInf(c.PriceMax, 1))
	assert.True(t, c.IsIdentity())
}

func TestResponseAcceptsBothShapes(t *testing.T) {
	var fromArray Response
	require.NoError(t, jsoncompat.Unmarshal([]byte(`[{"id":"a1","name":"Widget","category":"Tools","extra":{"PRI":10,"LGA":5,"VOL":2}}]`), &fromArray))
	assert.Equal(t, 1, fromArray.Count)
	assert.Equal(t, 10.0, fromArray.Products[0].Extra.Price)

	var fromObject Response
	require.NoError(t, jsoncompat.Unmarshal([]byte(`{"filteredProducts":[{"id":"a1"},{"id":"a2"}],"filteredCount":2}`), &fromObject))
	assert.Equal(t, 2, fromObject.Count)
	assert.Equal(t, []string{"a1", "a2"}, ids(fromObject.Products))

	var countOnly Response
	require.NoError(t, jsoncompat.Unmarshal([]byte(`{"filteredCount":7,"countOnly":true}`), &countOnly))
	assert.Equal(t, 7, countOnly.Count)
	assert.Empty(t, countOnly.Products)
}
