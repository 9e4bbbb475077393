package api

import (
	"net/http"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/tracking"
)

// HandsHandler serves the latest tracked hand states, for debugging and
// setup tooling.
type HandsHandler struct {
	app *app.App
}

// NewHandsHandler creates a new HandsHandler.
func NewHandsHandler(a *app.App) *HandsHandler {
	return &HandsHandler{app: a}
}

type handsResponse struct {
	Right tracking.HandState `json:"right"`
	Left  tracking.HandState `json:"left"`
}

// ServeHTTP implements the http.Handler interface.
func (h *HandsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	right, left := h.app.HandStates()
	writeJSON(w, http.StatusOK, handsResponse{Right: right, Left: left})
}
