// Package api carries the teacher's HTTP surface: a health check plus a
// debug-gated introspection endpoint, adapted from the teacher's
// /health and /api/dev/state/{id} routes (spec.md §9: the debug surface
// is named but not specified — this module resolves that, see
// SPEC_FULL.md's Supplemental Features). The actual session transport is
// a WebSocket upgrade handled by internal/session, not by this package.
package api

import (
	"net/http"

	"github.com/Ptchwir3/Aetharia/internal/config"
	"github.com/Ptchwir3/Aetharia/internal/session"
)

// NewRouter builds the HTTP mux: the WebSocket accept endpoint, a health
// check, and — only when cfg.Debug is set — the debug state endpoint.
func NewRouter(cfg *config.Config, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()

	h := &Handler{sessions: sessions}

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ws", sessions.Accept)

	if cfg.Debug {
		mux.HandleFunc("GET /debug/state", h.DebugState)
	}

	return corsMiddleware(mux)
}

// corsMiddleware adds permissive CORS headers, carried from the teacher's
// routes.go for the same reason it exists there: the rendering client is
// an out-of-scope collaborator served from a different origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
