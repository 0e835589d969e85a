package types

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
)

const DefaultPageSize = 50

// FormValue is a raw form input. Json bodies may carry it as a string or a number.
type FormValue string

func (f *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := jsoncompat.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FormValue(s)
		return nil
	}
	*f = FormValue(data)
	return nil
}

// Bound resolves the input, falling back to def when blank or not a number.
func (f FormValue) Bound(def float64) float64 {
	v, ok := ParseFloat(string(f))
	if !ok {
		return def
	}
	return v
}

func (f FormValue) IsBlank() bool {
	return strings.TrimSpace(string(f)) == ""
}

// CriteriaForm is the user input as typed into the filter form.
type CriteriaForm struct {
	Query      string    `json:"query" schema:"query"`
	PriceMin   FormValue `json:"priceMin" schema:"priceMin"`
	PriceMax   FormValue `json:"priceMax" schema:"priceMax"`
	VolumeFrom FormValue `json:"volumeFrom" schema:"volumeFrom"`
	VolumeTo   FormValue `json:"volumeTo" schema:"volumeTo"`
	StockOnly  bool      `json:"stockOnly" schema:"stock"`
	Categories []string  `json:"categories" schema:"category"`
	Sort       string    `json:"sort" schema:"sort"`
	Direction  string    `json:"dir" schema:"dir"`
	Page       int       `json:"page" schema:"page"`
	PageSize   int       `json:"pageSize" schema:"size"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(FormValue(""), func(s string) reflect.Value {
		return reflect.ValueOf(FormValue(s))
	})
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (f *CriteriaForm) Sanitize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	f.PageSize = clamp(f.PageSize, 1, 1000)
	if f.Direction == "" && f.Sort != "" {
		f.Direction = string(DefaultDirection(f.Sort))
	}
}

// Criteria resolves the form into filter criteria. Blank or malformed bounds
// become 0 for lower bounds and +Inf for upper bounds.
func (f *CriteriaForm) Criteria() FilterCriteria {
	return FilterCriteria{
		Query:      f.Query,
		PriceMin:   f.PriceMin.Bound(0),
		PriceMax:   f.PriceMax.Bound(math.Inf(1)),
		VolumeFrom: f.VolumeFrom.Bound(0),
		VolumeTo:   f.VolumeTo.Bound(math.Inf(1)),
		StockOnly:  f.StockOnly,
		Categories: NewCategorySet(f.Categories...),
	}.Normalize()
}

func (f *CriteriaForm) SortCriteria() SortCriteria {
	return SortCriteria{
		Column:    f.Sort,
		Direction: ParseSortDirection(f.Direction),
	}
}

func FormFromValues(query url.Values) (*CriteriaForm, error) {
	form := &CriteriaForm{}
	err := decoder.Decode(form, query)
	form.Sanitize()
	return form, err
}

func FormFromRequest(r *http.Request) (*CriteriaForm, error) {
	if r.Method == http.MethodGet {
		return FormFromValues(r.URL.Query())
	}
	form := &CriteriaForm{}
	data, err := io.ReadAll(r.Body)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		err = jsoncompat.Unmarshal(data, form)
	}
	form.Sanitize()
	return form, err
}
