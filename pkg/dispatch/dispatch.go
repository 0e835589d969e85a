// Package dispatch runs engine requests away from the caller's goroutine.
package dispatch

import (
	"errors"
	"time"

	"github.com/matst80/slask-catalog/pkg/engine"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskcatalog_engine_requests_total",
		Help: "The total number of engine requests by executor",
	}, []string{"executor"})
	staleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskcatalog_engine_stale_responses_total",
		Help: "Responses dropped because a newer request was issued",
	})
	executionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "slaskcatalog_engine_execution_seconds",
		Help:    "Time spent filtering and sorting one request",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

var ErrClosed = errors.New("dispatcher closed")

// Dispatcher hands a request to some execution context and calls done with
// the response, possibly on another goroutine.
type Dispatcher interface {
	Dispatch(req engine.Request, done func(engine.Response)) error
	Close() error
}

func execute(req engine.Request) engine.Response {
	start := time.Now()
	res := engine.Execute(req)
	executionSeconds.Observe(time.Since(start).Seconds())
	return res
}

// New returns a worker pool, or the synchronous fallback when no workers
// are available.
func New(workers, queueSize int) Dispatcher {
	if workers <= 0 {
		logging.Log.Warnf("no engine workers available, running filtering on the caller")
		return Direct{}
	}
	pool := NewWorkerPool(workers, queueSize)
	pool.Start()
	return pool
}

// Direct runs the engine on the calling goroutine.
type Direct struct{}

func (Direct) Dispatch(req engine.Request, done func(engine.Response)) error {
	requestsTotal.WithLabelValues("direct").Inc()
	done(execute(req))
	return nil
}

func (Direct) Close() error {
	return nil
}
