package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/physics"
	"github.com/ayusman/handstrike/internal/store"
	"github.com/ayusman/handstrike/internal/tracking"
	"github.com/ayusman/handstrike/internal/vec"
)

func testServer(t *testing.T) (*Server, *app.App, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ref := vec.Vec3{Z: 1}
	cal := tracking.Calibrate(vec.Vec3{Z: 3}, vec.Vec3{Z: -1}, 60, 1.0, &ref)

	cfg := config.Default()
	cfg.MirrorMode = false
	cfg.UseSmoothing = false
	cfg.MinHitVelocity = 0.5
	cfg.CollisionDetectionRange = 0.3
	cfg.HitCooldown = 0.25

	a, err := app.New(app.Config{
		Pipeline:    cfg,
		Calibration: cal,
		Engine:      physics.NewWorld(),
		Store:       st,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	return New(Config{Store: st, App: a}), a, st
}

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("status = %v, want ok", response["status"])
	}

	// Only GET is allowed.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestConfigAPI(t *testing.T) {
	srv, _, _ := testServer(t)

	t.Run("GET returns defaults", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var cfg config.Config
		if err := json.NewDecoder(rec.Body).Decode(&cfg); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if cfg != config.Default() {
			t.Errorf("config = %+v, want defaults", cfg)
		}
	})

	t.Run("PUT clamps and persists", func(t *testing.T) {
		update := config.Default()
		update.MaxForce = 9999 // above range, must be clamped
		update.MirrorMode = false

		body, _ := json.Marshal(update)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", bytes.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var saved config.Config
		if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if saved.MaxForce != 500 {
			t.Errorf("MaxForce = %f, want clamped 500", saved.MaxForce)
		}
		if saved.MirrorMode {
			t.Error("MirrorMode = true, want false after update")
		}
	})

	t.Run("PUT rejects bad payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader("{nope")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestTargetsAPI(t *testing.T) {
	srv, a, _ := testServer(t)

	body := `{"id": "ball", "name": "Ball", "position": {"x": 0, "y": 1.2, "z": 0.8}}`
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/targets", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	if targets := a.Targets(); len(targets) != 1 || targets[0].ID != "ball" {
		t.Fatalf("coordinator targets = %+v, want registered ball", targets)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/targets", nil))

	var listed struct {
		Targets []app.Target `json:"targets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listed); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(listed.Targets) != 1 || listed.Targets[0].Position != (vec.Vec3{Y: 1.2, Z: 0.8}) {
		t.Errorf("listed = %+v, want ball at (0, 1.2, 0.8)", listed.Targets)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/targets/ball", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(a.Targets()) != 0 {
		t.Error("target still registered after DELETE")
	}
}

func TestTargetsAPI_DeleteClearsHitStats(t *testing.T) {
	srv, a, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"id": "ball", "name": "Ball", "position": {"x": 0.3, "y": 0, "z": 1}}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	// Land a hit: sweep the right wrist toward the target, spacing the
	// submissions so each frame gets a distinct millisecond timestamp.
	for i := 0; i < 20; i++ {
		frame := detector.NeutralPoseFrame()
		frame.Landmarks[detector.RightWrist].X = 0.5 + 0.02*float64(i)
		frame.Landmarks[detector.RightWrist].Y = 0.5
		a.SubmitFrame(frame.Landmarks, frame.ImageWidth, frame.ImageHeight)
		time.Sleep(8 * time.Millisecond)
		a.Tick(time.Now())
	}
	if hitRec, ok := a.HitRecord("ball"); !ok || hitRec.HitCount == 0 {
		t.Fatalf("HitRecord = %+v (ok=%v), want at least one hit before deleting", hitRec, ok)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/targets/ball", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if _, ok := a.HitRecord("ball"); ok {
		t.Error("in-memory hit record survived DELETE")
	}

	// Re-registering under the same ID starts from clean stats.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/targets",
		strings.NewReader(`{"id": "ball", "name": "Ball", "position": {"x": 0.3, "y": 0, "z": 1}}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("re-register status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var stats struct {
		Targets []struct {
			TargetID string `json:"target_id"`
			HitCount int    `json:"hit_count"`
		} `json:"targets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats error = %v", err)
	}
	if len(stats.Targets) != 1 || stats.Targets[0].HitCount != 0 {
		t.Errorf("stats after re-register = %+v, want ball with 0 hits", stats.Targets)
	}
}

func TestStatsAPI(t *testing.T) {
	srv, a, _ := testServer(t)
	a.RegisterTarget("ball", "Ball", vec.Vec3{Z: 1})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Targets []struct {
			TargetID string `json:"target_id"`
			HitCount int    `json:"hit_count"`
		} `json:"targets"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(resp.Targets) != 1 || resp.Targets[0].TargetID != "ball" {
		t.Errorf("stats = %+v, want one entry for ball", resp.Targets)
	}
	if resp.Targets[0].HitCount != 0 {
		t.Errorf("HitCount = %d, want 0 before any hits", resp.Targets[0].HitCount)
	}
}

func TestHandsAPI(t *testing.T) {
	srv, _, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hands", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Right tracking.HandState `json:"right"`
		Left  tracking.HandState `json:"left"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Right.Tracked || resp.Left.Tracked {
		t.Error("hands tracked before any frames")
	}
}

func TestIngestWebSocket(t *testing.T) {
	srv, a, _ := testServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/frames"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	frame := detector.NeutralPoseFrame()
	msg := map[string]interface{}{
		"landmarks":    frame.Landmarks,
		"image_width":  frame.ImageWidth,
		"image_height": frame.ImageHeight,
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write error = %v", err)
	}

	// The frame travels producer → queue; give the read loop a moment, then
	// run one consumer tick and observe the tracked hand.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a.Tick(time.Now())
		if right, _ := a.HandStates(); right.Tracked {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("hand never tracked from a frame submitted over the WebSocket")
}
