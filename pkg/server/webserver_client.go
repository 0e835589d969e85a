package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/engine"
	"github.com/matst80/slask-catalog/pkg/paging"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_searches_total",
		Help: "The total number of processed product searches",
	})
	noCounts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_counts_total",
		Help: "The total number of processed count previews",
	})
	sessionActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_session_actions_total",
		Help: "Session interactions by kind",
	}, []string{"action"})
)

func (ws *WebServer) GetCatalog(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	c := ws.Catalog()
	w.WriteHeader(http.StatusOK)
	return enc.Encode(CatalogSummary{
		Products:   c.Len(),
		InStock:    c.InStock,
		Categories: c.Categories,
		PriceRange: c.PriceRange,
		LoadedAt:   c.LoadedAt,
	})
}

// Products filters, sorts and pages the catalog from the request parameters
// without touching any session state.
func (ws *WebServer) Products(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	form, err := types.FormFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	go noSearches.Inc()

	criteria := form.Criteria()
	sort := form.SortCriteria()
	res, err := ws.execute(r.Context(), engine.NewRequest(ws.Catalog().Products, criteria, sort))
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}

	items, page := paging.Slice(res.Products, form.PageSize, form.Page)
	go ws.Tracking.TrackSearch(sessionId, tracking.Search{
		Criteria: criteria,
		Sort:     sort,
		Results:  res.Count,
		Page:     page,
	}, r.Clone(context.Background()))

	w.WriteHeader(http.StatusOK)
	return enc.Encode(ProductsResponse{
		PageState: paging.PageState{
			Page:       page,
			PageSize:   form.PageSize,
			Count:      res.Count,
			TotalPages: paging.TotalPages(res.Count, form.PageSize),
		},
		Items: items,
		Sort:  sort,
	})
}

// ProductsByName looks a product name up in the catalog name index. Case is
// ignored, the rest of the name must match exactly.
func (ws *WebServer) ProductsByName(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return nil
	}
	items := ws.Catalog().ByName(name)
	if len(items) == 0 {
		http.Error(w, "no product named "+name, http.StatusNotFound)
		return nil
	}
	w.WriteHeader(http.StatusOK)
	return enc.Encode(NamedProductsResponse{Name: name, Items: items})
}

func (ws *WebServer) Count(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	form, err := types.FormFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	go noCounts.Inc()

	req := engine.NewRequest(ws.Catalog().Products, form.Criteria(), types.SortCriteria{})
	req.CountOnly = true
	res, err := ws.execute(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	w.WriteHeader(http.StatusOK)
	return enc.Encode(CountResponse{Count: res.Count})
}
