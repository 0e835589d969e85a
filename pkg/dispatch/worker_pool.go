package dispatch

import (
	"sync"

	"github.com/matst80/slask-catalog/pkg/engine"
	"github.com/matst80/slask-catalog/pkg/logging"
)

type job struct {
	req  engine.Request
	done func(engine.Response)
}

// WorkerPool executes requests on a fixed set of goroutines.
type WorkerPool struct {
	jobs        chan job
	workerCount int
	wg          sync.WaitGroup
	mu          sync.RWMutex
	closed      bool
}

func NewWorkerPool(workerCount, queueSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &WorkerPool{
		jobs:        make(chan job, queueSize),
		workerCount: workerCount,
	}
}

func (p *WorkerPool) Start() {
	p.wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go p.worker()
	}
	logging.Log.Infof("started engine pool with %d workers", p.workerCount)
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.done(execute(j.req))
	}
}

// Dispatch queues the request. It blocks while the queue is full.
func (p *WorkerPool) Dispatch(req engine.Request, done func(engine.Response)) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	requestsTotal.WithLabelValues("pool").Inc()
	p.jobs <- job{req: req, done: done}
	return nil
}

// Close stops accepting requests and waits for queued ones to finish.
func (p *WorkerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
	logging.Log.Infof("engine pool stopped")
	return nil
}
