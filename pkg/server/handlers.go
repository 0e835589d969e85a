package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/browser"
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/types"
)

var errBadRequest = errors.New("bad request")

func badRequest(w http.ResponseWriter, msg string) error {
	err := fmt.Errorf("%w: %s", errBadRequest, msg)
	http.Error(w, err.Error(), http.StatusBadRequest)
	return err
}

func sidebarState(s *browser.Session) SidebarState {
	return SidebarState{
		Categories:     s.PendingCategories(),
		StockOnly:      s.PendingStock(),
		PreviewCount:   s.LastPreviewCount(),
		FiltersApplied: s.FiltersApplied(),
	}
}

func respondSession(w http.ResponseWriter, s *browser.Session, view browser.View, enc jsoncompat.Encoder) error {
	w.WriteHeader(http.StatusOK)
	return enc.Encode(SessionResponse{
		View:    view,
		Sidebar: sidebarState(s),
	})
}

func respondSidebar(w http.ResponseWriter, s *browser.Session, enc jsoncompat.Encoder) error {
	w.WriteHeader(http.StatusOK)
	return enc.Encode(sidebarState(s))
}

func (ws *WebServer) EndSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	if err := ws.Sessions.Remove(sessionId); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) GetSession(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	s := ws.Sessions.GetOrCreate(sessionId)
	return respondSession(w, s, s.Page(), enc)
}

// SetFilter applies the query and numeric bounds of the posted form.
func (ws *WebServer) SetFilter(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	form, err := types.FormFromRequest(r)
	if err != nil {
		return badRequest(w, err.Error())
	}
	go sessionActions.WithLabelValues("filter").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	err = s.SetFilter(form.Query, browser.Bounds{
		PriceMin:   form.PriceMin,
		PriceMax:   form.PriceMax,
		VolumeFrom: form.VolumeFrom,
		VolumeTo:   form.VolumeTo,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	s.Wait()
	return respondSession(w, s, s.Page(), enc)
}

func (ws *WebServer) SortBy(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	column := strings.TrimSpace(r.URL.Query().Get("column"))
	if column == "" {
		return badRequest(w, "missing column")
	}
	go sessionActions.WithLabelValues("sort").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	s.SortBy(column)
	return respondSession(w, s, s.Page(), enc)
}

func (ws *WebServer) GoToPage(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return badRequest(w, fmt.Sprintf("invalid page %q", r.URL.Query().Get("page")))
	}
	go sessionActions.WithLabelValues("page").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	return respondSession(w, s, s.GoTo(page), enc)
}

func (ws *WebServer) Navigate(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	s := ws.Sessions.GetOrCreate(sessionId)
	var view browser.View
	switch action := r.PathValue("action"); action {
	case "first":
		view = s.First()
	case "prev":
		view = s.Previous()
	case "next":
		view = s.Next()
	case "last":
		view = s.Last()
	default:
		return badRequest(w, fmt.Sprintf("unknown page action %q", action))
	}
	go sessionActions.WithLabelValues("page").Inc()
	return respondSession(w, s, view, enc)
}

func (ws *WebServer) ToggleCategory(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	category := r.URL.Query().Get("category")
	if category == "" {
		return badRequest(w, "missing category")
	}
	go sessionActions.WithLabelValues("toggle").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	s.ToggleCategory(category)
	if err := s.PreviewCount(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	s.Wait()
	return respondSidebar(w, s, enc)
}

func (ws *WebServer) SetPendingStock(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	value, err := strconv.ParseBool(r.URL.Query().Get("value"))
	if err != nil {
		return badRequest(w, fmt.Sprintf("invalid stock value %q", r.URL.Query().Get("value")))
	}
	go sessionActions.WithLabelValues("stock").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	s.SetPendingStock(value)
	if err := s.PreviewCount(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	s.Wait()
	return respondSidebar(w, s, enc)
}

func (ws *WebServer) ApplySidebar(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	go sessionActions.WithLabelValues("apply").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	if err := s.ApplySidebarFilters(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	s.Wait()
	return respondSession(w, s, s.Page(), enc)
}

func (ws *WebServer) ClearSidebar(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	go sessionActions.WithLabelValues("clear").Inc()
	s := ws.Sessions.GetOrCreate(sessionId)
	if err := s.ClearFilters(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return err
	}
	s.Wait()
	return respondSidebar(w, s, enc)
}
