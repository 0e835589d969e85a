package tracking

import (
	"math"
	"net/http"

	"github.com/matst80/slask-catalog/pkg/types"
)

const (
	sessionEvent uint16 = 0
	searchEvent  uint16 = 1
)

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

// Filters is the json friendly form of the criteria, open bounds are left out.
type Filters struct {
	PriceMin   *float64 `json:"priceMin,omitempty"`
	PriceMax   *float64 `json:"priceMax,omitempty"`
	VolumeFrom *float64 `json:"volumeFrom,omitempty"`
	VolumeTo   *float64 `json:"volumeTo,omitempty"`
	StockOnly  bool     `json:"stockOnly,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type SearchEventData struct {
	*Filters
	*BaseEvent
	NumberOfResults int    `json:"noi"`
	Query           string `json:"query"`
	Page            int    `json:"page"`
	Sort            string `json:"sort,omitempty"`
	Referer         string `json:"referer"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func limit(v float64, open float64) *float64 {
	if v == open || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func filtersOf(c types.FilterCriteria) *Filters {
	return &Filters{
		PriceMin:   limit(c.PriceMin, 0),
		PriceMax:   limit(c.PriceMax, math.Inf(1)),
		VolumeFrom: limit(c.VolumeFrom, 0),
		VolumeTo:   limit(c.VolumeTo, math.Inf(1)),
		StockOnly:  c.StockOnly,
		Categories: c.Categories.Names(),
	}
}

func NewSessionEvent(sessionId, country string, r *http.Request) Session {
	return Session{
		BaseEvent:    &BaseEvent{Event: sessionEvent, SessionId: sessionId, Country: country, Context: "b2c"},
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	}
}

func NewSearchEvent(sessionId, country string, search Search, r *http.Request) *SearchEventData {
	ret := &SearchEventData{
		BaseEvent:       &BaseEvent{Event: searchEvent, SessionId: sessionId, Country: country, Context: "b2c"},
		Filters:         filtersOf(search.Criteria),
		NumberOfResults: search.Results,
		Query:           search.Criteria.Query,
		Page:            search.Page,
	}
	if search.Sort.IsSet() {
		ret.Sort = search.Sort.Column + ":" + string(search.Sort.Direction)
	}
	if r != nil {
		ret.Referer = r.Header.Get("Referer")
	}
	return ret
}
