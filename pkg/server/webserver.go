package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/matst80/slask-catalog/pkg/browser"
	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/dispatch"
	"github.com/matst80/slask-catalog/pkg/engine"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/messaging"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/matst80/slask-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrNoLoader = errors.New("no catalog loader configured")

type Loader interface {
	Flatten(ctx context.Context) (*catalog.Catalog, error)
}

type SnapshotStore interface {
	SaveCatalog(products []types.Product) error
	StreamCatalog(w io.Writer) (int64, error)
}

type WebServer struct {
	mu      sync.RWMutex
	catalog *catalog.Catalog
	reload  sync.Mutex

	Dispatcher dispatch.Dispatcher
	Sessions   *SessionStore
	Tracking   tracking.Tracking
	Loader     Loader
	Storage    SnapshotStore
	// OnReload is called after a new snapshot is in place.
	OnReload func(messaging.ReloadedEvent) error
	Country  string
	PageSize int
}

func NewWebServer(c *catalog.Catalog, d dispatch.Dispatcher, pageSize int, sessionTTL time.Duration) *WebServer {
	if pageSize < 1 {
		pageSize = types.DefaultPageSize
	}
	ws := &WebServer{
		catalog:    c,
		Dispatcher: d,
		Tracking:   tracking.Nop{},
		PageSize:   pageSize,
	}
	ws.Sessions = NewSessionStore(sessionTTL, func() *browser.Session {
		return browser.NewSession(ws.Catalog(), ws.Dispatcher, ws.PageSize)
	})
	return ws
}

func (ws *WebServer) Catalog() *catalog.Catalog {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.catalog
}

// SetCatalog swaps the snapshot. Sessions built on the old one are dropped.
func (ws *WebServer) SetCatalog(c *catalog.Catalog) {
	ws.mu.Lock()
	ws.catalog = c
	ws.mu.Unlock()
	ws.Sessions.Reset()
	totalProducts.Set(float64(c.Len()))
}

// Reload runs the loader and replaces the snapshot. Concurrent calls are
// serialized, a failed load keeps the current snapshot.
func (ws *WebServer) Reload(ctx context.Context) (*catalog.Catalog, error) {
	if ws.Loader == nil {
		return nil, ErrNoLoader
	}
	ws.reload.Lock()
	defer ws.reload.Unlock()

	c, err := ws.Loader.Flatten(ctx)
	if err != nil {
		reloadsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	ws.SetCatalog(c)
	reloadsTotal.WithLabelValues("ok").Inc()

	if ws.Storage != nil {
		if err := ws.Storage.SaveCatalog(c.Products); err != nil {
			logging.Log.Warnf("Could not save catalog snapshot: %v", err)
		}
	}
	if ws.OnReload != nil {
		err := ws.OnReload(messaging.ReloadedEvent{
			Country:  ws.Country,
			Products: c.Len(),
			InStock:  c.InStock,
			Source:   "reload",
		})
		if err != nil {
			logging.Log.Warnf("Could not publish reload event: %v", err)
		}
	}
	return c, nil
}

// execute runs req on the dispatcher and waits for the response.
func (ws *WebServer) execute(ctx context.Context, req engine.Request) (engine.Response, error) {
	ch := make(chan engine.Response, 1)
	if err := ws.Dispatcher.Dispatch(req, func(res engine.Response) {
		ch <- res
	}); err != nil {
		return engine.Response{}, err
	}
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return engine.Response{}, ctx.Err()
	}
}

func (ws *WebServer) Handler(enableProfiling bool) *http.ServeMux {
	srv := http.NewServeMux()

	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("/metrics", promhttp.Handler())

	srv.HandleFunc("/api/catalog", common.JsonHandler(ws.Tracking, ws.GetCatalog))
	srv.HandleFunc("/api/products", common.JsonHandler(ws.Tracking, ws.Products))
	srv.HandleFunc("GET /api/products/by-name", common.JsonHandler(ws.Tracking, ws.ProductsByName))
	srv.HandleFunc("/api/count", common.JsonHandler(ws.Tracking, ws.Count))

	srv.HandleFunc("OPTIONS /api/session", common.RespondToOptions)
	srv.HandleFunc("OPTIONS /api/session/{rest...}", common.RespondToOptions)
	srv.HandleFunc("GET /api/session", common.JsonHandler(ws.Tracking, ws.GetSession))
	srv.HandleFunc("DELETE /api/session", common.JsonHandler(ws.Tracking, ws.EndSession))
	srv.HandleFunc("POST /api/session/filter", common.JsonHandler(ws.Tracking, ws.SetFilter))
	srv.HandleFunc("POST /api/session/sort", common.JsonHandler(ws.Tracking, ws.SortBy))
	srv.HandleFunc("POST /api/session/page", common.JsonHandler(ws.Tracking, ws.GoToPage))
	srv.HandleFunc("POST /api/session/page/{action}", common.JsonHandler(ws.Tracking, ws.Navigate))
	srv.HandleFunc("POST /api/session/sidebar/toggle", common.JsonHandler(ws.Tracking, ws.ToggleCategory))
	srv.HandleFunc("POST /api/session/sidebar/stock", common.JsonHandler(ws.Tracking, ws.SetPendingStock))
	srv.HandleFunc("POST /api/session/sidebar/apply", common.JsonHandler(ws.Tracking, ws.ApplySidebar))
	srv.HandleFunc("POST /api/session/sidebar/clear", common.JsonHandler(ws.Tracking, ws.ClearSidebar))

	srv.HandleFunc("POST /admin/reload", ws.ReloadHandler)
	srv.HandleFunc("GET /admin/snapshot", ws.SnapshotHandler)

	if enableProfiling {
		srv.HandleFunc("/debug/pprof/", pprof.Index)
		srv.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		srv.HandleFunc("/debug/pprof/profile", pprof.Profile)
		srv.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		srv.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return srv
}
