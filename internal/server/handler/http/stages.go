package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/closetquest/closetquest/internal/models"
	"github.com/closetquest/closetquest/internal/service"
	"github.com/closetquest/closetquest/internal/session"
)

// ProgressService defines the stage-progression operations required by the
// HTTP handlers.
type ProgressService interface {
	// Stages returns the stage list with per-user unlock state overlaid.
	Stages(ctx context.Context, sess *models.Session) []models.Stage
	// CompleteStage persists a stage's completion flag.
	CompleteStage(ctx context.Context, sess *models.Session, stageID int) error
	// SelectStage returns the entry path for an unlocked stage.
	SelectStage(ctx context.Context, sess *models.Session, stageID int) (string, error)
}

// StagesHandler handles HTTP requests for the stage progression tracker.
type StagesHandler struct {
	// Progress performs the underlying progression operations.
	Progress ProgressService
}

// requireSession pulls the restored session from the request context,
// answering 401 when none is present.
func requireSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, service.ErrNoSession.Error())
		return nil, false
	}
	return sess, true
}

// stageID parses the stageID route parameter.
func stageID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "stageID"))
}

// List handles GET /api/stages.
func (h *StagesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stages": h.Progress.Stages(r.Context(), sess),
	})
}

// Complete handles POST /api/stages/{stageID}/complete.
func (h *StagesHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, err := stageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	if err := h.Progress.CompleteStage(r.Context(), sess, id); err != nil {
		if errors.Is(err, service.ErrUnknownStage) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Select handles POST /api/stages/{stageID}/select.
// Selecting a locked stage answers 403; the unlock state used here is the
// authoritative, freshly computed one, never client-side state.
func (h *StagesHandler) Select(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, err := stageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	entry, err := h.Progress.SelectStage(r.Context(), sess, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStage):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStageLocked):
			writeError(w, http.StatusForbidden, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to select stage")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "entry": entry})
}
