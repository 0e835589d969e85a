package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/matst80/slask-catalog/pkg/catalog"
	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/config"
	"github.com/matst80/slask-catalog/pkg/dispatch"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/messaging"
	"github.com/matst80/slask-catalog/pkg/server"
	"github.com/matst80/slask-catalog/pkg/storage"
	"github.com/matst80/slask-catalog/pkg/tracking"
	"github.com/matst80/slask-catalog/pkg/types"

	amqp "github.com/rabbitmq/amqp091-go"
)

type app struct {
	cfg     *config.Config
	conn    *amqp.Connection
	storage *storage.DiskStorage
	web     *server.WebServer
}

// loadCatalog flattens the remote catalog, falling back to the last saved
// snapshot and finally to an empty catalog.
func loadCatalog(ctx context.Context, loader server.Loader, ds *storage.DiskStorage) *catalog.Catalog {
	c, err := loader.Flatten(ctx)
	if err == nil {
		if err := ds.SaveCatalog(c.Products); err != nil {
			logging.Log.Warnf("Could not save catalog snapshot: %v", err)
		}
		return c
	}
	logging.Log.Errorf("Could not load remote catalog: %v", err)

	snapshot, err := ds.LoadCatalog()
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			logging.Log.Errorf("Could not load catalog snapshot: %v", err)
		}
		logging.Log.Warnf("Starting with an empty catalog")
		return catalog.NewCatalog([]types.Product{})
	}
	return catalog.NewCatalog(snapshot.Products)
}

func (a *app) connectAmqp(ctx context.Context) {
	conn, err := amqp.DialConfig(a.cfg.Rabbit.Url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		logging.Log.Errorf("Failed to connect to RabbitMQ: %v", err)
		return
	}
	a.conn = conn
	country := a.cfg.Rabbit.Country

	ch, err := conn.Channel()
	if err != nil {
		logging.Log.Errorf("Failed to open a channel: %v", err)
		return
	}
	if err := messaging.DefineTopic(ch, country, messaging.CatalogReloaded); err != nil {
		logging.Log.Errorf("Failed to define %s: %v", messaging.CatalogReloaded, err)
	}
	a.web.OnReload = func(ev messaging.ReloadedEvent) error {
		return messaging.SendChange(conn, country, messaging.CatalogReloaded, ev)
	}

	listenCh, err := conn.Channel()
	if err != nil {
		logging.Log.Errorf("Failed to open a channel: %v", err)
		return
	}
	err = messaging.ListenToTopic(listenCh, country, messaging.CatalogChanged, func(d amqp.Delivery) error {
		logging.Log.Infof("Got %s, reloading catalog", messaging.CatalogChanged)
		c, err := a.web.Reload(ctx)
		if err != nil {
			return err
		}
		logging.Log.Infof("Reloaded catalog with %d products", c.Len())
		return nil
	})
	if err != nil {
		logging.Log.Errorf("Failed to listen for %s: %v", messaging.CatalogChanged, err)
		return
	}
	logging.Log.Infof("Listening for catalog changes")
}

func (a *app) saveSnapshot(ctx context.Context) error {
	return a.storage.SaveCatalog(a.web.Catalog().Products)
}

func main() {
	cfg := config.Load()
	flag.BoolVar(&cfg.Server.Profiling, "profiling", cfg.Server.Profiling, "expose pprof handlers")
	flag.StringVar(&cfg.Server.ListenAddress, "listen", cfg.Server.ListenAddress, "listen address")
	flag.Parse()

	if err := logging.Init(logging.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer logging.Sync()
	logging.Log.Infof("Using %s json encoding", jsoncompat.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{Addr: cfg.Server.ListenAddress}
	timeouts := cfg.Server.Timeouts
	srv.ReadHeaderTimeout = timeouts.ReadHeader
	srv.ReadTimeout = timeouts.Read
	srv.WriteTimeout = timeouts.Write
	srv.IdleTimeout = timeouts.Idle
	lifecycle := common.NewLifecycle(srv, timeouts.Shutdown, timeouts.Hook)

	source := catalog.NewHttpSource(cfg.Catalog.BaseUrl, cfg.Catalog.BranchPrefix, cfg.Catalog.Timeout)
	var products catalog.ProductSource = source
	var cached *catalog.CachedProductSource
	if cfg.Redis.Addr != "" {
		cached = catalog.NewCachedProductSource(source, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		products = cached
	}
	flattener := catalog.NewFlattener(source, products, cfg.Catalog.LookupWorkers)
	diskStorage := storage.NewDiskStorage(cfg.Rabbit.Country, cfg.Storage.RootFolder)

	loadCtx, loadCancel := context.WithTimeout(ctx, 5*time.Minute)
	current := loadCatalog(loadCtx, flattener, diskStorage)
	loadCancel()
	logging.Log.Infof("Serving %d products in %d categories", current.Len(), len(current.Categories))

	dispatcher := dispatch.New(cfg.Engine.Workers, cfg.Engine.QueueSize)

	web := server.NewWebServer(current, dispatcher, cfg.Engine.PageSize, cfg.Server.SessionTTL)
	web.Loader = flattener
	web.Storage = diskStorage
	web.Country = cfg.Rabbit.Country
	srv.Handler = web.Handler(cfg.Server.Profiling)

	evictCtx, stopEviction := context.WithCancel(ctx)
	evicted := make(chan struct{})
	go func() {
		defer close(evicted)
		web.Sessions.Run(evictCtx, time.Minute)
	}()

	a := &app{cfg: cfg, storage: diskStorage, web: web}

	lifecycle.OnShutdown("sessions", func(ctx context.Context) error {
		stopEviction()
		select {
		case <-evicted:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	lifecycle.OnShutdown("engine", func(ctx context.Context) error {
		return dispatcher.Close()
	})
	lifecycle.OnShutdown("snapshot", a.saveSnapshot)

	if cfg.Rabbit.Url != "" {
		trk, err := tracking.NewRabbitTracking(cfg.Rabbit.Url, cfg.Rabbit.Country)
		if err != nil {
			logging.Log.Errorf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			web.Tracking = trk
			lifecycle.OnShutdown("tracking", func(ctx context.Context) error {
				return trk.Close()
			})
		}
		a.connectAmqp(ctx)
		if a.conn != nil {
			lifecycle.OnShutdown("rabbit", func(ctx context.Context) error {
				return a.conn.Close()
			})
		}
	}
	if cached != nil {
		lifecycle.OnShutdown("redis", func(ctx context.Context) error {
			return cached.Close()
		})
	}

	if err := lifecycle.Run(ctx); err != nil {
		logging.Log.Errorf("Catalog browser stopped with errors: %v", err)
		logging.Sync()
		os.Exit(1)
	}
	logging.Log.Infof("Catalog browser stopped")
}
