// Package browser keeps the transient view state of one user browsing a
// catalog snapshot: the applied filters, the pending sidebar selection, the
// sort column and the page position.
package browser

import (
	"slices"
	"strings"
	"sync"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/dispatch"
	"github.com/matst80/slask-catalog/pkg/engine"
	"github.com/matst80/slask-catalog/pkg/paging"
	"github.com/matst80/slask-catalog/pkg/types"
)

// Bounds are the raw numeric inputs, blank means unrestricted.
type Bounds struct {
	PriceMin   types.FormValue `json:"priceMin"`
	PriceMax   types.FormValue `json:"priceMax"`
	VolumeFrom types.FormValue `json:"volumeFrom"`
	VolumeTo   types.FormValue `json:"volumeTo"`
}

func (b Bounds) isBlank() bool {
	return b.PriceMin.IsBlank() && b.PriceMax.IsBlank() && b.VolumeFrom.IsBlank() && b.VolumeTo.IsBlank()
}

// View is one rendered page. An empty Items slice with Empty set is the
// "no results" state, not a loading state.
type View struct {
	paging.PageState
	Items []types.Product    `json:"items"`
	Empty bool               `json:"empty"`
	Sort  types.SortCriteria `json:"sort"`
}

type Session struct {
	mu      sync.Mutex
	applyMu sync.Mutex
	settled *sync.Cond

	catalog *catalog.Catalog
	full    *dispatch.Latest
	preview *dispatch.Latest

	query      string
	bounds     Bounds
	stockOnly  bool
	categories []string

	pendingStock      bool
	pendingCategories []string

	sort      engine.SortState
	filtered  []types.Product
	paginator *paging.Paginator

	fullSettled    uint64
	previewSettled uint64
	previewCount   int
	onCount        []func(int)
}

// NewSession starts a session over c showing every product. Requests go
// through d, the caller owns d and closes it.
func NewSession(c *catalog.Catalog, d dispatch.Dispatcher, pageSize int) *Session {
	s := &Session{
		catalog:      c,
		full:         dispatch.NewLatest(d),
		preview:      dispatch.NewLatest(d),
		filtered:     slices.Clone(c.Products),
		paginator:    paging.NewPaginator(pageSize),
		previewCount: c.Len(),
	}
	s.settled = sync.NewCond(&s.mu)
	s.paginator.SetCount(len(s.filtered))
	return s
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Session) Paginator() *paging.Paginator {
	return s.paginator
}

// OnCountChange registers fn to receive preview counts.
func (s *Session) OnCountChange(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCount = append(s.onCount, fn)
}

func (s *Session) appliedCriteria() types.FilterCriteria {
	form := types.CriteriaForm{
		Query:      s.query,
		PriceMin:   s.bounds.PriceMin,
		PriceMax:   s.bounds.PriceMax,
		VolumeFrom: s.bounds.VolumeFrom,
		VolumeTo:   s.bounds.VolumeTo,
		StockOnly:  s.stockOnly,
		Categories: s.categories,
	}
	return form.Criteria()
}

func (s *Session) pendingCriteria() types.FilterCriteria {
	c := s.appliedCriteria()
	c.StockOnly = s.pendingStock
	c.Categories = types.NewCategorySet(s.pendingCategories...)
	return c
}

// Criteria returns the filter currently applied to the list.
func (s *Session) Criteria() types.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appliedCriteria()
}

// SetFilter replaces the text query and the numeric bounds and refreshes.
func (s *Session) SetFilter(query string, bounds Bounds) error {
	s.mu.Lock()
	s.query = query
	s.bounds = bounds
	s.mu.Unlock()
	return s.Refresh()
}

// Refresh recomputes the filtered list with the applied criteria. When
// several refreshes are in flight only the newest one is applied.
func (s *Session) Refresh() error {
	s.mu.Lock()
	sort := s.sort.SortCriteria
	req := engine.NewRequest(s.catalog.Products, s.appliedCriteria(), sort)
	s.mu.Unlock()

	gen, err := s.full.Dispatch(req, func(gen uint64, res engine.Response) {
		s.apply(gen, sort, res)
	})
	if err != nil {
		s.markSettled(&s.fullSettled, gen)
	}
	return err
}

func (s *Session) apply(gen uint64, sort types.SortCriteria, res engine.Response) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	if !s.full.IsCurrent(gen) {
		s.mu.Unlock()
		return
	}
	products := res.Products
	if current := s.sort.SortCriteria; current != sort {
		engine.Sort(products, current)
	}
	s.filtered = products
	s.mu.Unlock()

	s.paginator.SetCount(res.Count)
	s.markSettled(&s.fullSettled, gen)
}

func (s *Session) markSettled(field *uint64, gen uint64) {
	s.mu.Lock()
	*field = max(*field, gen)
	s.settled.Broadcast()
	s.mu.Unlock()
}

// Wait blocks until the newest refresh and preview have been applied.
func (s *Session) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.fullSettled < s.full.Generation() || s.previewSettled < s.preview.Generation() {
		s.settled.Wait()
	}
}

// SortBy selects column, toggling the direction if it is already selected,
// and re-sorts the current list.
func (s *Session) SortBy(column string) types.SortCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort := s.sort.Select(column)
	products := slices.Clone(s.filtered)
	engine.Sort(products, sort)
	s.filtered = products
	return sort
}

func (s *Session) Sort() types.SortCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort.SortCriteria
}

// ToggleCategory adds or removes a category from the pending selection.
func (s *Session) ToggleCategory(category string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.pendingCategories, category); i >= 0 {
		s.pendingCategories = slices.Delete(slices.Clone(s.pendingCategories), i, i+1)
	} else {
		s.pendingCategories = append(slices.Clone(s.pendingCategories), category)
	}
	return slices.Clone(s.pendingCategories)
}

func (s *Session) SetPendingStock(stockOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingStock = stockOnly
}

func (s *Session) PendingStock() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingStock
}

func (s *Session) PendingCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pendingCategories)
}

// ApplySidebarFilters makes the pending selection the applied one.
func (s *Session) ApplySidebarFilters() error {
	s.mu.Lock()
	s.categories = slices.Clone(s.pendingCategories)
	s.stockOnly = s.pendingStock
	s.mu.Unlock()
	return s.Refresh()
}

// ClearFilters resets the pending selection and the bounds. The applied
// list stays until the next apply, only the preview count is updated.
func (s *Session) ClearFilters() error {
	s.mu.Lock()
	s.pendingCategories = nil
	s.pendingStock = false
	s.bounds = Bounds{}
	s.mu.Unlock()
	return s.PreviewCount()
}

// PreviewCount counts the products the pending selection would show.
func (s *Session) PreviewCount() error {
	s.mu.Lock()
	req := engine.NewRequest(s.catalog.Products, s.pendingCriteria(), types.SortCriteria{})
	s.mu.Unlock()
	req.CountOnly = true

	gen, err := s.preview.Dispatch(req, func(gen uint64, res engine.Response) {
		s.mu.Lock()
		if !s.preview.IsCurrent(gen) {
			s.mu.Unlock()
			return
		}
		s.previewCount = res.Count
		listeners := slices.Clone(s.onCount)
		s.mu.Unlock()

		for _, fn := range listeners {
			fn(res.Count)
		}
		s.markSettled(&s.previewSettled, gen)
	})
	if err != nil {
		s.markSettled(&s.previewSettled, gen)
	}
	return err
}

func (s *Session) LastPreviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewCount
}

// FiltersApplied reports if any filter input, applied or pending, is set.
func (s *Session) FiltersApplied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.query) != "" ||
		!s.bounds.isBlank() ||
		s.stockOnly || len(s.categories) > 0 ||
		s.pendingStock || len(s.pendingCategories) > 0
}

func (s *Session) Count() int {
	return s.paginator.State().Count
}

func (s *Session) InStockCount() int {
	return s.catalog.InStock
}

func (s *Session) Categories() []types.CategoryCount {
	return s.catalog.Categories
}

func (s *Session) PriceRange() types.PriceRange {
	return s.catalog.PriceRange
}

// Page returns the current page of the filtered list.
func (s *Session) Page() View {
	state := s.paginator.State()
	s.mu.Lock()
	defer s.mu.Unlock()
	items, page := paging.Slice(s.filtered, state.PageSize, state.Page)
	state.Page = page
	return View{
		PageState: state,
		Items:     slices.Clone(items),
		Empty:     len(s.filtered) == 0,
		Sort:      s.sort.SortCriteria,
	}
}

func (s *Session) First() View {
	s.paginator.First()
	return s.Page()
}

func (s *Session) Previous() View {
	s.paginator.Previous()
	return s.Page()
}

func (s *Session) Next() View {
	s.paginator.Next()
	return s.Page()
}

func (s *Session) Last() View {
	s.paginator.Last()
	return s.Page()
}

func (s *Session) GoTo(page int) View {
	s.paginator.GoTo(page)
	return s.Page()
}
