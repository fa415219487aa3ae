// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"net/http"
	"strings"

	"github.com/closetquest/closetquest/internal/session"
)

// LoginPath is where unauthenticated requests to protected areas are sent.
const LoginPath = "/login"

// RequiresLogin decides whether a request must be redirected to the login
// entry point: the path falls under a protected prefix and no token cookie
// is present. It is a pure function of (path, cookie presence, prefixes).
func RequiresLogin(path string, hasToken bool, prefixes []string) bool {
	if hasToken {
		return false
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Guard is a middleware gating the configured path prefixes behind the
// presence of a session token cookie.
//
// It only checks cookie presence, never validity: real authorization happens
// when the identity service rejects an invalid or expired ticket downstream.
// Presence of the cookie is not proof of a live session.
//
// The redirect discards the original URL rather than preserving it for a
// post-login return.
func Guard(prefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasToken := session.Restore(r)
			if RequiresLogin(r.URL.Path, hasToken, prefixes) {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession restores the session from the request's cookies, if present,
// and stores it in the request context for downstream handlers. It never
// rejects a request; handlers that need a session answer 401 themselves.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := session.Restore(r); ok {
			r = r.WithContext(session.WithContext(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}
