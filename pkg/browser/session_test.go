package browser

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/dispatch"
	"github.com/matst80/slask-catalog/pkg/paging"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCatalog(n int) *catalog.Catalog {
	products := make([]types.Product, n)
	for i := range products {
		category := "Tools"
		if i%3 == 0 {
			category = "Garden"
		}
		products[i] = types.Product{
			Id:       fmt.Sprintf("p%03d", i),
			Name:     fmt.Sprintf("Product %d", i),
			Category: category,
			Extra:    types.Extra{Price: float64(i), Stock: float64(i % 2), Volume: float64(i % 10)},
		}
	}
	return catalog.NewCatalog(products)
}

func ids(products []types.Product) []string {
	ret := make([]string, len(products))
	for i, p := range products {
		ret[i] = p.Id
	}
	return ret
}

func TestPageClampsToLastPage(t *testing.T) {
	s := NewSession(makeCatalog(120), dispatch.Direct{}, 50)
	require.NoError(t, s.Refresh())
	s.Wait()

	view := s.GoTo(10)
	assert.Equal(t, 3, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Items, 20)
	assert.Equal(t, "p100", view.Items[0].Id)
	assert.Equal(t, "p119", view.Items[19].Id)
}

func TestRefreshReclampsPage(t *testing.T) {
	s := NewSession(makeCatalog(120), dispatch.Direct{}, 10)
	assert.Equal(t, 12, s.Last().Page)

	require.NoError(t, s.SetFilter("product 1", Bounds{}))
	s.Wait()
	// "product 1", "product 1x" and "product 1xx"
	assert.Equal(t, 31, s.Count())
	view := s.Page()
	assert.Equal(t, 4, view.Page)
	assert.Equal(t, 4, view.TotalPages)
	assert.Len(t, view.Items, 1)
}

func TestBlankBoundsDoNotExclude(t *testing.T) {
	s := NewSession(makeCatalog(30), dispatch.Direct{}, 50)
	require.NoError(t, s.SetFilter("", Bounds{PriceMin: " ", PriceMax: "", VolumeTo: "abc"}))
	s.Wait()
	assert.Equal(t, 30, s.Count())
	assert.Zero(t, s.Criteria().PriceMin)
	assert.True(t, math.IsInf(s.Criteria().VolumeTo, 1))

	require.NoError(t, s.SetFilter("", Bounds{PriceMin: "10", PriceMax: "19"}))
	s.Wait()
	assert.Equal(t, 10, s.Count())
	assert.True(t, s.FiltersApplied())
}

func TestEmptyResultIsDistinct(t *testing.T) {
	s := NewSession(makeCatalog(5), dispatch.Direct{}, 50)
	require.NoError(t, s.SetFilter("no such product", Bounds{}))
	s.Wait()
	view := s.Page()
	assert.True(t, view.Empty)
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, 1, view.TotalPages)
}

func TestSortByTogglesAndSurvivesRefresh(t *testing.T) {
	s := NewSession(makeCatalog(6), dispatch.Direct{}, 50)
	sort := s.SortBy(types.ColumnPrice)
	assert.Equal(t, types.Ascending, sort.Direction)
	assert.Equal(t, "p000", s.Page().Items[0].Id)

	sort = s.SortBy(types.ColumnPrice)
	assert.Equal(t, types.Descending, sort.Direction)
	assert.Equal(t, []string{"p005", "p004", "p003", "p002", "p001", "p000"}, ids(s.Page().Items))

	require.NoError(t, s.SetFilter("product", Bounds{PriceMax: "3"}))
	s.Wait()
	assert.Equal(t, []string{"p003", "p002", "p001", "p000"}, ids(s.Page().Items))

	assert.Equal(t, types.Descending, s.SortBy(types.ColumnStock).Direction)
}

func TestSidebarSelectionAppliesOnlyOnApply(t *testing.T) {
	s := NewSession(makeCatalog(9), dispatch.Direct{}, 50)
	var previews []int
	s.OnCountChange(func(n int) { previews = append(previews, n) })

	assert.Equal(t, []string{"Garden"}, s.ToggleCategory("Garden"))
	s.SetPendingStock(true)
	assert.True(t, s.FiltersApplied())
	require.NoError(t, s.PreviewCount())
	s.Wait()
	// p003 is the only in stock garden product
	assert.Equal(t, 1, s.LastPreviewCount())
	assert.Equal(t, 9, s.Count(), "pending selection is not applied yet")

	require.NoError(t, s.ApplySidebarFilters())
	s.Wait()
	assert.Equal(t, []string{"p003"}, ids(s.Page().Items))

	require.NoError(t, s.ClearFilters())
	s.Wait()
	assert.Empty(t, s.PendingCategories())
	assert.Equal(t, 9, s.LastPreviewCount())
	assert.Equal(t, 1, s.Count(), "clearing only resets the pending selection")
	assert.Equal(t, []int{1, 9}, previews)

	assert.Equal(t, []string{"Garden"}, s.ToggleCategory("Garden"))
	assert.Empty(t, s.ToggleCategory("Garden"))
}

func TestSummaries(t *testing.T) {
	s := NewSession(makeCatalog(9), dispatch.Direct{}, 50)
	assert.Equal(t, 4, s.InStockCount())
	assert.Equal(t, types.PriceRange{Min: 1, Max: 8}, s.PriceRange())
	assert.Equal(t, []types.CategoryCount{{Name: "Garden", Count: 3}, {Name: "Tools", Count: 6}}, s.Categories())
}

func TestLatestRefreshWins(t *testing.T) {
	pool := dispatch.NewWorkerPool(4, 16)
	pool.Start()
	defer pool.Close()

	s := NewSession(makeCatalog(500), pool, 25)
	for i := range 50 {
		require.NoError(t, s.SetFilter(fmt.Sprintf("product %d", i), Bounds{}))
	}
	require.NoError(t, s.SetFilter("product 42", Bounds{}))
	s.Wait()

	// "product 42" plus "product 420".."product 429"
	assert.Equal(t, 11, s.Count())
	assert.Equal(t, "p042", s.Page().Items[0].Id)
}

func TestPaginatorSubscribersSeeRefresh(t *testing.T) {
	s := NewSession(makeCatalog(100), dispatch.Direct{}, 10)
	var notified atomic.Int32
	var last atomic.Value
	s.Paginator().Subscribe(func(state paging.PageState) {
		notified.Add(1)
		last.Store(state)
	})
	s.Last()
	require.NoError(t, s.SetFilter("product 9", Bounds{}))
	s.Wait()

	assert.GreaterOrEqual(t, notified.Load(), int32(2))
	state := last.Load().(paging.PageState)
	assert.Equal(t, 11, state.Count)
	assert.Equal(t, 2, state.Page)
}
