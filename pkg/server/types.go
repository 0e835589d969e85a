package server

import (
	"time"

	"github.com/matst80/slask-catalog/pkg/browser"
	"github.com/matst80/slask-catalog/pkg/paging"
	"github.com/matst80/slask-catalog/pkg/types"
)

type CatalogSummary struct {
	Products   int                   `json:"products"`
	InStock    int                   `json:"inStock"`
	Categories []types.CategoryCount `json:"categories"`
	PriceRange types.PriceRange      `json:"priceRange"`
	LoadedAt   time.Time             `json:"loadedAt"`
}

type ProductsResponse struct {
	paging.PageState
	Items []types.Product    `json:"items"`
	Sort  types.SortCriteria `json:"sort"`
}

type NamedProductsResponse struct {
	Name  string          `json:"name"`
	Items []types.Product `json:"items"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type SidebarState struct {
	Categories     []string `json:"categories"`
	StockOnly      bool     `json:"stockOnly"`
	PreviewCount   int      `json:"previewCount"`
	FiltersApplied bool     `json:"filtersApplied"`
}

type SessionResponse struct {
	browser.View
	Sidebar SidebarState `json:"sidebar"`
}

type ReloadResponse struct {
	Products int       `json:"products"`
	InStock  int       `json:"inStock"`
	LoadedAt time.Time `json:"loadedAt"`
}
