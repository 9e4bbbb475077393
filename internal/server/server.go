// Package server provides the HTTP and WebSocket surface for the Handstrike
// pipeline: configuration, target registration, hit statistics, landmark
// frame ingestion, and hit notifications.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/server/api"
	"github.com/ayusman/handstrike/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Handstrike application.
type Server struct {
	config Config
	mux    *http.ServeMux
	hits   *HitsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		s.mux.Handle("/api/config", api.NewConfigHandler(s.config.Store, s.config.App))
	}

	if s.config.App != nil {
		targetsHandler := api.NewTargetsHandler(s.config.App, s.config.Store)
		s.mux.Handle("/api/targets", targetsHandler)
		s.mux.Handle("/api/targets/", targetsHandler)

		s.mux.Handle("/api/stats", api.NewStatsHandler(s.config.App, s.config.Store))
		s.mux.Handle("/api/hands", api.NewHandsHandler(s.config.App))

		s.mux.Handle("/ws/frames", NewIngestHandler(s.config.App))

		s.hits = NewHitsHandler()
		s.config.App.OnHit(s.hits.Publish)
		s.mux.Handle("/ws/hits", s.hits)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
