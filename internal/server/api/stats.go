package api

import (
	"net/http"
	"time"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/store"
	"github.com/ayusman/handstrike/internal/vec"
)

// StatsHandler serves per-target hit statistics: the in-memory session
// records plus the persisted all-time count.
type StatsHandler struct {
	app   *app.App
	store *store.Store
}

// NewStatsHandler creates a new StatsHandler. The store may be nil.
func NewStatsHandler(a *app.App, s *store.Store) *StatsHandler {
	return &StatsHandler{app: a, store: s}
}

type targetStats struct {
	TargetID           string    `json:"target_id"`
	HitCount           int       `json:"hit_count"`
	LastHitTime        time.Time `json:"last_hit_time"`
	LastImpactVelocity vec.Vec3  `json:"last_impact_velocity"`
	TotalLogged        int       `json:"total_logged"`
}

type statsResponse struct {
	Targets []targetStats `json:"targets"`
}

// ServeHTTP implements the http.Handler interface.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := statsResponse{Targets: []targetStats{}}

	for _, target := range h.app.Targets() {
		stats := targetStats{TargetID: target.ID}

		if rec, ok := h.app.HitRecord(target.ID); ok {
			stats.HitCount = rec.HitCount
			stats.LastHitTime = rec.LastHitTime
			stats.LastImpactVelocity = rec.LastImpactVelocity
		}

		if h.store != nil {
			if total, err := h.store.CountHits(target.ID); err == nil {
				stats.TotalLogged = total
			}
		}

		resp.Targets = append(resp.Targets, stats)
	}

	writeJSON(w, http.StatusOK, resp)
}
