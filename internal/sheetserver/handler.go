package sheetserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/udisondev/charsheet/internal/db"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSheet computes the character's sheet on the fly and returns it
// without persisting anything.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	charID, ok := characterID(w, r)
	if !ok {
		return
	}

	sheet, err := s.svc.Recompute(r.Context(), charID)
	if err != nil {
		writeServiceError(w, charID, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSheetResponse(sheet))
}

// handleRecompute computes the character's sheet and stores the results.
func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	charID, ok := characterID(w, r)
	if !ok {
		return
	}

	sheet, err := s.svc.RecomputeAndStore(r.Context(), charID)
	if err != nil {
		writeServiceError(w, charID, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSheetResponse(sheet))
}

// characterID parses the {id} path segment. A malformed id is the one
// request error that is the caller's fault, so it gets a 400 and the
// handler stops.
func characterID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed character id"})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, charID int64, err error) {
	if errors.Is(err, db.ErrCharacterNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "character not found"})
		return
	}
	slog.Error("failed to recompute character", "char_id", charID, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "recompute failed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
