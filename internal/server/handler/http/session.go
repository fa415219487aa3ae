package http

import (
	"errors"
	"net/http"

	"github.com/closetquest/closetquest/internal/session"
)

// SessionHandler handles session-restoration requests.
type SessionHandler struct{}

// RestoreSession handles GET /api/restore-session, called once at
// application bootstrap. It answers 200 when the durable cookie holds a
// session ticket, 401 when none is present, and 500 on an unexpected cookie
// read failure. A missing session is a normal state: the frontend redirects
// to login, nothing crashes.
func (h *SessionHandler) RestoreSession(w http.ResponseWriter, r *http.Request) {
	_, err := r.Cookie(session.TokenCookie)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, http.ErrNoCookie):
		writeError(w, http.StatusUnauthorized, "no valid session found")
	default:
		writeError(w, http.StatusInternalServerError, "session restore failed")
	}
}
