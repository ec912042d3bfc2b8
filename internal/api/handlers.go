package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Ptchwir3/Aetharia/internal/session"
)

// Handler holds the dependencies the HTTP surface needs for introspection.
type Handler struct {
	sessions *session.Manager
}

// Health reports process liveness, carried unchanged in spirit from the
// teacher's api/handlers.go Health method.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugState reports tick count, session count, and per-zone population —
// the teacher's /api/dev/state/{id} intent (full engine state dump)
// adapted to Aetharia's global-server shape rather than a per-game one,
// gated by AETHARIA_DEBUG per SPEC_FULL.md's resolution of spec.md §6.
func (h *Handler) DebugState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ticks":        h.sessions.Physics.Ticks(),
		"sessionCount": h.sessions.Hub.Count(),
		"overrides":    h.sessions.Store.OverrideCount(),
		"zones":        h.sessions.Zones.Populations(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("api: failed to encode response: %v", err)
	}
}
