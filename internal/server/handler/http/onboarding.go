package http

import (
	"net/http"
)

// OnboardingHandler handles HTTP requests for the onboarding gate.
type OnboardingHandler struct {
	// Onboarding performs the underlying flag operations.
	Onboarding OnboardingService
}

// Status handles GET /api/onboarding.
func (h *OnboardingHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"firstLogin": h.Onboarding.IsFirstLogin(r.Context(), sess.Token),
	})
}

// Complete handles POST /api/onboarding/complete. Idempotent. A write
// failure is reported: a lost flag means the user sees onboarding again.
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.Onboarding.MarkComplete(r.Context(), sess.Token); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save onboarding state")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
