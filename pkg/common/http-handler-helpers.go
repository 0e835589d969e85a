package common

import (
	"net/http"

	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	"github.com/matst80/slask-catalog/pkg/logging"
	"github.com/matst80/slask-catalog/pkg/tracking"
)

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error

func JsonHandler(trk tracking.Tracking, fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		GenericHeaders(w, r)

		err := fn(w, r, sessionId, jsoncompat.NewEncoder(w))
		if err != nil {
			logging.Log.Warnf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
		}
	}
}

func GenericHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.Header().Set("Cache-Control", "private, no-store")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
