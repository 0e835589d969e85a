package dispatch

import (
	"sync/atomic"

	"github.com/matst80/slask-catalog/pkg/engine"
)

// Sequencer provides monotonically increasing generation numbers.
type Sequencer struct{ n atomic.Uint64 }

func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

func (s *Sequencer) Current() uint64 { return s.n.Load() }

// Latest tags every request with a generation and only delivers the response
// if no newer request has been issued meanwhile.
type Latest struct {
	Dispatcher
	seq Sequencer
}

func NewLatest(d Dispatcher) *Latest {
	return &Latest{Dispatcher: d}
}

// Dispatch returns the generation of the request. done is called only when
// the response is still the newest one, stale responses are dropped.
func (l *Latest) Dispatch(req engine.Request, done func(uint64, engine.Response)) (uint64, error) {
	gen := l.seq.Next()
	err := l.Dispatcher.Dispatch(req, func(res engine.Response) {
		if l.seq.Current() != gen {
			staleResponses.Inc()
			return
		}
		done(gen, res)
	})
	return gen, err
}

// Generation returns the generation of the newest issued request.
func (l *Latest) Generation() uint64 {
	return l.seq.Current()
}

// IsCurrent reports if gen is still the newest generation.
func (l *Latest) IsCurrent(gen uint64) bool {
	return l.seq.Current() == gen
}
