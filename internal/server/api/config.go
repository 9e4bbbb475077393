// Package api provides HTTP API handlers for the Handstrike application.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/store"
)

// ConfigHandler handles HTTP requests for the pipeline configuration.
// Configuration is immutable per session: a PUT persists the new values and
// they take effect when the pipeline is next constructed.
type ConfigHandler struct {
	store *store.Store
	app   *app.App
}

// NewConfigHandler creates a new ConfigHandler with the given store.
func NewConfigHandler(s *store.Store, a *app.App) *ConfigHandler {
	return &ConfigHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.LoadConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config payload")
		return
	}

	// SaveConfig clamps; echo back what was actually stored.
	if err := h.store.SaveConfig(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config")
		return
	}

	saved, err := h.store.LoadConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload config")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
