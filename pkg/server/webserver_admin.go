package server

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	totalProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskcatalog_products_served",
		Help: "Number of products in the snapshot being served",
	})
	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_reloads_total",
		Help: "Catalog reloads by outcome",
	}, []string{"outcome"})
)

func (ws *WebServer) ReloadHandler(w http.ResponseWriter, r *http.Request) {
	c, err := ws.Reload(r.Context())
	if err != nil {
		logging.Log.Errorf("Reload failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	logging.Log.Infof("Reloaded catalog with %d products", c.Len())
	common.GenericHeaders(w, r)
	w.WriteHeader(http.StatusOK)
	err = jsoncompat.NewEncoder(w).Encode(ReloadResponse{
		Products: c.Len(),
		InStock:  c.InStock,
		LoadedAt: c.LoadedAt,
	})
	if err != nil {
		logging.Log.Warnf("Error encoding reload response: %v", err)
	}
}

func (ws *WebServer) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	if ws.Storage == nil {
		http.Error(w, "no snapshot storage", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.json.gz"`)
	if _, err := ws.Storage.StreamCatalog(w); err != nil {
		logging.Log.Warnf("Error streaming snapshot: %v", err)
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}
