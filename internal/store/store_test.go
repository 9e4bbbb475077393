package store

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/vec"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "handstrike.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadConfig_DefaultsWhenEmpty(t *testing.T) {
	s := testStore(t)

	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("LoadConfig() on empty store = %+v, want defaults", cfg)
	}
}

func TestSaveLoadConfig(t *testing.T) {
	s := testStore(t)

	cfg := config.Default()
	cfg.MirrorMode = false
	cfg.ForceMultiplier = 42

	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded != cfg {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveConfig_ClampsOnWrite(t *testing.T) {
	s := testStore(t)

	cfg := config.Default()
	cfg.MaxForce = 99999

	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	loaded, _ := s.LoadConfig()
	if loaded.MaxForce != 500 {
		t.Errorf("MaxForce = %f, want clamped 500", loaded.MaxForce)
	}
}

func TestHitLog(t *testing.T) {
	s := testStore(t)

	dir := vec.Vec3{Z: -1}
	if _, err := s.RecordHit("ball", dir, 40); err != nil {
		t.Fatalf("RecordHit() error = %v", err)
	}
	if _, err := s.RecordHit("ball", dir, 150); err != nil {
		t.Fatalf("RecordHit() error = %v", err)
	}
	if _, err := s.RecordHit("other", dir, 10); err != nil {
		t.Fatalf("RecordHit() error = %v", err)
	}

	count, err := s.CountHits("ball")
	if err != nil {
		t.Fatalf("CountHits() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountHits(ball) = %d, want 2", count)
	}

	hits, err := s.ListHits("ball", 10)
	if err != nil {
		t.Fatalf("ListHits() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("ListHits(ball) returned %d rows, want 2", len(hits))
	}
	for _, h := range hits {
		if h.TargetID != "ball" {
			t.Errorf("hit row for target %q leaked into ball's log", h.TargetID)
		}
		if h.Direction != dir {
			t.Errorf("Direction = %+v, want %+v", h.Direction, dir)
		}
	}

	if err := s.ResetHits("ball"); err != nil {
		t.Fatalf("ResetHits() error = %v", err)
	}
	count, _ = s.CountHits("ball")
	if count != 0 {
		t.Errorf("CountHits(ball) after reset = %d, want 0", count)
	}
	// Other targets untouched.
	count, _ = s.CountHits("other")
	if count != 1 {
		t.Errorf("CountHits(other) = %d, want 1", count)
	}
}

func TestTargets(t *testing.T) {
	s := testStore(t)

	pos := vec.Vec3{Y: 1.2, Z: 0.8}
	if err := s.SaveTarget("ball", "Practice Ball", pos); err != nil {
		t.Fatalf("SaveTarget() error = %v", err)
	}

	targets, err := s.ListTargets()
	if err != nil {
		t.Fatalf("ListTargets() error = %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("ListTargets() returned %d, want 1", len(targets))
	}
	if targets[0].Name != "Practice Ball" || targets[0].Position != pos {
		t.Errorf("target = %+v, want Practice Ball at %+v", targets[0], pos)
	}

	// Upsert moves the target.
	moved := vec.Vec3{Y: 1.5, Z: 0.5}
	if err := s.SaveTarget("ball", "Practice Ball", moved); err != nil {
		t.Fatalf("SaveTarget() upsert error = %v", err)
	}
	targets, _ = s.ListTargets()
	if len(targets) != 1 || targets[0].Position != moved {
		t.Errorf("upsert result = %+v, want single target at %+v", targets, moved)
	}

	if err := s.DeleteTarget("ball"); err != nil {
		t.Fatalf("DeleteTarget() error = %v", err)
	}
	targets, _ = s.ListTargets()
	if len(targets) != 0 {
		t.Errorf("ListTargets() after delete returned %d, want 0", len(targets))
	}
}
