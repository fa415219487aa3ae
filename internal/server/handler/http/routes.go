package http

import (
	"net/http"

	"github.com/closetquest/closetquest/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns the HTTP handler serving the API.
//
// Routes:
//
//	POST /api/register                   → authHandler.Register
//	POST /api/login                      → authHandler.Login
//	POST /api/logout                     → authHandler.Logout
//	GET  /api/restore-session            → sessionHandler.RestoreSession
//	GET  /api/stages                     → stagesHandler.List       (session required)
//	POST /api/stages/{stageID}/complete  → stagesHandler.Complete   (session required)
//	POST /api/stages/{stageID}/select    → stagesHandler.Select     (session required)
//	GET  /api/onboarding                 → onboardingHandler.Status (session required)
//	POST /api/onboarding/complete        → onboardingHandler.Complete (session required)
//
// Middleware chain (applied in order):
//  1. WithRequestLogging(logger)  — logs incoming requests
//  2. Guard(protectedPrefixes)    — redirects cookie-less page requests to /login
//  3. AllowContentType (API only) — rejects non-JSON request bodies
//  4. WithSession (API only)      — restores the cookie session into the context
//
// The guard covers the page prefixes only; API endpoints answer their own
// 401s rather than redirecting.
func NewRouter(
	authHandler *AuthHandler,
	sessionHandler *SessionHandler,
	stagesHandler *StagesHandler,
	onboardingHandler *OnboardingHandler,
	protectedPrefixes []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Gate protected page prefixes behind cookie presence
	r.Use(middleware.Guard(protectedPrefixes))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(middleware.WithSession)

		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/restore-session", sessionHandler.RestoreSession)

		// Session-scoped group: handlers answer 401 without a session
		r.Group(func(r chi.Router) {
			r.Get("/stages", stagesHandler.List)
			r.Post("/stages/{stageID}/complete", stagesHandler.Complete)
			r.Post("/stages/{stageID}/select", stagesHandler.Select)
			r.Get("/onboarding", onboardingHandler.Status)
			r.Post("/onboarding/complete", onboardingHandler.Complete)
		})
	})

	return r
}
