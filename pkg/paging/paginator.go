package paging

import "sync"

type PageState struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"totalHits"`
	TotalPages int `json:"totalPages"`
}

type Listener func(PageState)

// Paginator holds the page position for one result list and tells
// subscribers whenever the count or the page changes.
type Paginator struct {
	mu        sync.Mutex
	state     PageState
	nextId    int
	listeners map[int]Listener
}

func NewPaginator(pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Paginator{
		state: PageState{
			Page:       1,
			PageSize:   pageSize,
			TotalPages: 1,
		},
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn and returns a function removing it again.
func (p *Paginator) Subscribe(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextId
	p.nextId++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Paginator) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Paginator) update(fn func(s *PageState)) PageState {
	p.mu.Lock()
	before := p.state
	fn(&p.state)
	p.state.Page = ClampPage(p.state.Page, p.state.TotalPages)
	after := p.state
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	if before != after {
		for _, l := range listeners {
			l(after)
		}
	}
	return after
}

// SetCount is called every time the filtered count is recomputed. The
// current page is re-clamped against the new total.
func (p *Paginator) SetCount(count int) PageState {
	return p.update(func(s *PageState) {
		s.Count = max(0, count)
		s.TotalPages = TotalPages(s.Count, s.PageSize)
	})
}

func (p *Paginator) GoTo(page int) PageState {
	return p.update(func(s *PageState) {
		s.Page = page
	})
}

func (p *Paginator) First() PageState {
	return p.GoTo(1)
}

func (p *Paginator) Previous() PageState {
	return p.update(func(s *PageState) {
		s.Page--
	})
}

func (p *Paginator) Next() PageState {
	return p.update(func(s *PageState) {
		s.Page++
	})
}

func (p *Paginator) Last() PageState {
	return p.update(func(s *PageState) {
		s.Page = s.TotalPages
	})
}
