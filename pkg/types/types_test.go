package types

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{12.5, 12.5},
		{7, 7},
		{int64(3), 3},
		{uint(4), 4},
		{json.Number("2.5"), 2.5},
		{" 8 ", 8},
		{"", 0},
		{"12abc", 0},
		{"NaN", 0},
		{-3.0, 0},
		{math.Inf(1), 0},
		{nil, 0},
		{true, 0},
		{map[string]any{"x": 1}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseNumber(tc.in), "%#v", tc.in)
	}
}

func TestParseFloat(t *testing.T) {
	v, ok := ParseFloat(" 1e2 ")
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	_, ok = ParseFloat("  ")
	assert.False(t, ok)
	_, ok = ParseFloat("5 kr")
	assert.False(t, ok)
}

func TestExtraSanitize(t *testing.T) {
	e := Extra{Price: math.NaN(), Stock: -1, Volume: 3}.Sanitize()
	assert.Equal(t, Extra{Volume: 3}, e)
	assert.True(t, Extra{}.IsZero())
}

func TestNormalizeWidensMalformedBounds(t *testing.T) {
	c := FilterCriteria{
		Query:      "WiDget",
		PriceMin:   math.NaN(),
		PriceMax:   math.NaN(),
		VolumeFrom: -5,
		VolumeTo:   10,
	}.Normalize()
	assert.Equal(t, "widget", c.Query)
	assert.Zero(t, c.PriceMin)
	assert.True(t, math.IsInf(c.PriceMax, 1))
	assert.Zero(t, c.VolumeFrom)
	assert.Equal(t, 10.0, c.VolumeTo)
	assert.NotNil(t, c.Categories)
	assert.False(t, c.IsIdentity())

	identity := NewFilterCriteria()
	assert.True(t, identity.IsIdentity())
}

func TestCategorySetNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"Garden", "Tools"}, NewCategorySet("Tools", "Garden", "Tools").Names())
	assert.Empty(t, CategorySet{}.Names())
}

func TestSortDirection(t *testing.T) {
	assert.Equal(t, Descending, Ascending.Toggle())
	assert.Equal(t, Ascending, Descending.Toggle())
	assert.Equal(t, Ascending, ParseSortDirection("sideways"))
	assert.Equal(t, Descending, DefaultDirection(ColumnStock))
	assert.Equal(t, Ascending, DefaultDirection(ColumnPrice))
}

func TestFormFromValues(t *testing.T) {
	form, err := FormFromValues(url.Values{
		"query":    {"Wid"},
		"priceMin": {"5"},
		"priceMax": {"abc"},
		"stock":    {"true"},
		"category": {"Tools", "Garden"},
		"sort":     {ColumnStock},
		"size":     {"5000"},
		"unknown":  {"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, form.Page)
	assert.Equal(t, 1000, form.PageSize)
	assert.Equal(t, SortCriteria{Column: ColumnStock, Direction: Descending}, form.SortCriteria())

	c := form.Criteria()
	assert.Equal(t, "wid", c.Query)
	assert.Equal(t, 5.0, c.PriceMin)
	assert.True(t, math.IsInf(c.PriceMax, 1))
	assert.True(t, c.StockOnly)
	assert.Equal(t, []string{"Garden", "Tools"}, c.Categories.Names())
}

func TestFormDefaults(t *testing.T) {
	form, err := FormFromValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, form.PageSize)
	assert.False(t, form.SortCriteria().IsSet())
	c := form.Criteria()
	assert.True(t, c.IsIdentity())
}

func TestFormFromJsonBody(t *testing.T) {
	body := `{"query":"rake","priceMin":10,"priceMax":"25","volumeTo":null,"dir":"desc","sort":"name","page":2}`
	r := httptest.NewRequest("POST", "/api/session/filter", strings.NewReader(body))
	form, err := FormFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, FormValue("10"), form.PriceMin)
	assert.Equal(t, FormValue("25"), form.PriceMax)
	assert.True(t, form.VolumeTo.IsBlank())
	assert.Equal(t, 2, form.Page)
	assert.Equal(t, SortCriteria{Column: ColumnName, Direction: Descending}, form.SortCriteria())

	c := form.Criteria()
	assert.Equal(t, 10.0, c.PriceMin)
	assert.Equal(t, 25.0, c.PriceMax)
}

func TestFormFromEmptyBody(t *testing.T) {
	form, err := FormFromRequest(httptest.NewRequest("POST", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, form.Page)
}

func TestFormFromBrokenBody(t *testing.T) {
	_, err := FormFromRequest(httptest.NewRequest("POST", "/", strings.NewReader("{")))
	assert.Error(t, err)
}
