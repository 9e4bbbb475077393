package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/store"
	"github.com/ayusman/handstrike/internal/vec"
)

// TargetsHandler handles HTTP requests for hit target resources.
type TargetsHandler struct {
	app   *app.App
	store *store.Store
}

// NewTargetsHandler creates a new TargetsHandler. The store may be nil, in
// which case targets are kept in memory only.
func NewTargetsHandler(a *app.App, s *store.Store) *TargetsHandler {
	return &TargetsHandler{app: a, store: s}
}

type registerTargetRequest struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position vec.Vec3 `json:"position"`
}

type listTargetsResponse struct {
	Targets []app.Target `json:"targets"`
}

// ServeHTTP implements the http.Handler interface and routes requests to
// the collection (/api/targets) or item (/api/targets/{id}) handlers.
func (h *TargetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/targets")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.register(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodDelete:
		h.unregister(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TargetsHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listTargetsResponse{Targets: h.app.Targets()})
}

func (h *TargetsHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid target payload")
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Name == "" {
		req.Name = req.ID
	}

	h.app.RegisterTarget(req.ID, req.Name, req.Position)

	if h.store != nil {
		if err := h.store.SaveTarget(req.ID, req.Name, req.Position); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist target")
			return
		}
	}

	writeJSON(w, http.StatusCreated, app.Target{ID: req.ID, Name: req.Name, Position: req.Position})
}

func (h *TargetsHandler) unregister(w http.ResponseWriter, r *http.Request, id string) {
	h.app.UnregisterTarget(id)
	// Drop the session hit record too, so a target re-registered under the
	// same ID starts with clean stats.
	h.app.ResetTarget(id)

	if h.store != nil {
		if err := h.store.DeleteTarget(id); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete target")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
