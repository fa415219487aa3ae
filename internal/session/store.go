// Package session persists the active session across page loads using
// path-scoped cookies, and carries the restored session through the request
// context. There is deliberately no process-wide token global: every
// identity-service call takes the token from the request's own session.
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/closetquest/closetquest/internal/models"
)

const (
	// TokenCookie holds the session ticket.
	TokenCookie = "token"
	// CustomIDCookie holds the secondary, anonymous-linkable identity.
	CustomIDCookie = "customId"
	// TTL is the cookie lifetime.
	TTL = 7 * 24 * time.Hour
)

// PersistResult reports which of the cookie writes succeeded, so callers can
// decide whether to retry or proceed instead of a write failing silently.
type PersistResult struct {
	// TokenWritten is true when the session ticket cookie was set.
	TokenWritten bool
	// CustomIDWritten is true when the secondary identity cookie was set.
	CustomIDWritten bool
}

// Persist writes the session to durable cookies on the response. An empty
// token or custom id is never written; the corresponding result field stays
// false. Partial persistence is tolerated: the token cookie is the durable
// source of truth and the custom id can be re-minted on the next login.
func Persist(w http.ResponseWriter, sess *models.Session) PersistResult {
	var res PersistResult
	expires := time.Now().Add(TTL)

	if sess.Token != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     TokenCookie,
			Value:    sess.Token,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
		})
		res.TokenWritten = true
	}
	if sess.CustomID != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     CustomIDCookie,
			Value:    sess.CustomID,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
		})
		res.CustomIDWritten = true
	}
	return res
}

// Restore reads the session back from the request's cookies. It returns
// (nil, false) when no token cookie is present; a missing session is a normal
// state, not an error. Restore is idempotent and safe to call on every
// page load.
func Restore(r *http.Request) (*models.Session, bool) {
	token, err := r.Cookie(TokenCookie)
	if err != nil || token.Value == "" {
		return nil, false
	}

	sess := &models.Session{Token: token.Value}
	if customID, err := r.Cookie(CustomIDCookie); err == nil {
		sess.CustomID = customID.Value
		// The custom id is "{userId}_{timestamp}"; recover the user id
		// from its prefix.
		if i := strings.LastIndex(sess.CustomID, "_"); i > 0 {
			sess.UserID = sess.CustomID[:i]
		}
	}
	return sess, true
}

// Clear expires both session cookies on the response. Used on logout.
func Clear(w http.ResponseWriter) {
	for _, name := range []string{TokenCookie, CustomIDCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

type ctxKey string

const sessionKey ctxKey = "session"

// WithContext returns a context carrying the given session.
func WithContext(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext extracts the session from the request context. Returns
// (nil, false) if none was restored.
func FromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*models.Session)
	return sess, ok && sess != nil
}
