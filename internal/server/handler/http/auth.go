// Package http provides HTTP handlers for authentication, session
// restoration, onboarding, and stage progression.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/closetquest/closetquest/internal/models"
	"github.com/closetquest/closetquest/internal/service"
	"github.com/closetquest/closetquest/internal/session"
)

// AuthService defines the credential operations required by the HTTP
// handlers.
type AuthService interface {
	// Register validates and creates a new account.
	Register(ctx context.Context, name, email, password string) error
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// OnboardingService defines the onboarding-flag operations required by the
// HTTP handlers.
type OnboardingService interface {
	// IsFirstLogin reports whether the user should see the first-run flow.
	IsFirstLogin(ctx context.Context, token string) bool
	// MarkComplete records that the user finished onboarding.
	MarkComplete(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for registration, login, and logout.
type AuthHandler struct {
	// AuthService performs the underlying credential operations.
	AuthService AuthService
	// Onboarding reports first-login state after a successful login.
	Onboarding OnboardingService
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
// Validation failures answer 400 with field details; a service rejection
// answers 409 with the service's message. Registration does not log the
// user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := h.AuthService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "validation failed",
				"details": verr.Fields,
			})
			return
		}
		var rerr *service.RegistrationError
		if errors.As(err, &rerr) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":   rerr.Message,
				"details": rerr.Details,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
// On success it persists the session cookies and reports whether this is the
// user's first login, so the frontend can branch between the prologue and
// the home hub.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var lerr *service.LoginError
		if errors.As(err, &lerr) {
			writeError(w, http.StatusUnauthorized, lerr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	session.Persist(w, sess)
	firstLogin := h.Onboarding.IsFirstLogin(r.Context(), sess.Token)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"userId":     sess.UserID,
		"firstLogin": firstLogin,
	})
}

// Logout handles POST /api/logout by clearing the session cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
