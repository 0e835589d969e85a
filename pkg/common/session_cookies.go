package common

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/matst80/slask-catalog/pkg/tracking"
)

const SessionCookieName = "sid"

func generateSessionId() string {
	return uuid.NewString()
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionId,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   7200,
		Path:     "/",
	})
}

// HandleSessionCookie returns the session id of the request, issuing a new
// cookie when it is missing or not a valid uuid.
func HandleSessionCookie(trk tracking.Tracking, w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err == nil {
		if id, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return id.String()
		}
	}
	sessionId := generateSessionId()
	if trk != nil {
		go trk.TrackSession(sessionId, r.Clone(r.Context()))
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
