package tracking

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/types"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, search Search, r *http.Request)
	Close() error
}

// Search describes one applied filter and the size of its result.
type Search struct {
	Criteria types.FilterCriteria
	Sort     types.SortCriteria
	Results  int
	Page     int
}

type Nop struct{}

func (Nop) TrackSession(string, *http.Request)         {}
func (Nop) TrackSearch(string, Search, *http.Request) {}
func (Nop) Close() error                              { return nil }
