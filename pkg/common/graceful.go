package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/matst80/slask-catalog/pkg/logging"
)

// Hook releases one resource when the process stops.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Lifecycle serves an http server until it is told to stop, then drains the
// in-flight requests and runs the registered hooks in registration order.
type Lifecycle struct {
	server          *http.Server
	shutdownTimeout time.Duration
	hookTimeout     time.Duration

	mu    sync.Mutex
	hooks []namedHook
}

func NewLifecycle(server *http.Server, shutdownTimeout, hookTimeout time.Duration) *Lifecycle {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	return &Lifecycle{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		hookTimeout:     hookTimeout,
	}
}

// OnShutdown registers fn to run after the server has stopped accepting
// requests. Hooks run one at a time, each bounded by the hook timeout.
func (l *Lifecycle) OnShutdown(name string, fn Hook) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, namedHook{name: name, fn: fn})
}

// Run blocks until SIGINT, SIGTERM or ctx ends, or until the server fails to
// listen. The hooks run in every case, the listen error is returned joined
// with any hook errors.
func (l *Lifecycle) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	served := make(chan error, 1)
	go func() {
		logging.Log.Infof("Listening on %s", l.server.Addr)
		served <- l.server.ListenAndServe()
	}()

	var listenErr error
	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			listenErr = fmt.Errorf("listen on %s: %w", l.server.Addr, err)
			logging.Log.Errorf("Server stopped: %v", listenErr)
		}
	case <-ctx.Done():
		logging.Log.Infof("Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.shutdownTimeout)
	defer cancel()
	return errors.Join(listenErr, l.Shutdown(shutdownCtx))
}

// Shutdown drains the server and runs the hooks once. Later calls only
// shut the server down.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	var errs []error
	if err := l.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	l.mu.Lock()
	hooks := l.hooks
	l.hooks = nil
	l.mu.Unlock()

	for _, h := range hooks {
		if err := l.runHook(ctx, h); err != nil {
			logging.Log.Errorf("Shutdown hook %s failed: %v", h.name, err)
			errs = append(errs, err)
			continue
		}
		logging.Log.Debugf("Shutdown hook %s done", h.name)
	}
	return errors.Join(errs...)
}

// runHook gives up on hooks that ignore their context once the timeout passes.
func (l *Lifecycle) runHook(ctx context.Context, h namedHook) error {
	hookCtx, cancel := context.WithTimeout(ctx, l.hookTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- h.fn(hookCtx)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", h.name, err)
		}
		return nil
	case <-hookCtx.Done():
		return fmt.Errorf("%s: %w", h.name, hookCtx.Err())
	}
}
