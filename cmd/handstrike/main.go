package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/handstrike/internal/app"
	"github.com/ayusman/handstrike/internal/capture"
	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/impact"
	"github.com/ayusman/handstrike/internal/physics"
	"github.com/ayusman/handstrike/internal/server"
	"github.com/ayusman/handstrike/internal/store"
	"github.com/ayusman/handstrike/internal/tracking"
	"github.com/ayusman/handstrike/internal/tray"
	"github.com/ayusman/handstrike/internal/vec"
)

// Demo scene layout: the camera sits 2m in front of the ball's home
// position at chest height, looking down -Z.
var (
	cameraPosition = vec.Vec3{Y: 1.2, Z: 2}
	cameraForward  = vec.Vec3{Z: -1}
	ballHome       = vec.Vec3{Y: 1.2}
)

const (
	cameraFOV    = 60.0
	cameraAspect = float64(capture.DefaultWidth) / float64(capture.DefaultHeight)

	ballMass   = 0.5
	ballRadius = 0.12

	// activityThreshold is the percentage of changed pixels below which the
	// producer skips pose inference for a frame.
	activityThreshold = 0.5
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path (default ~/.handstrike/handstrike.db)")
	cameraID := flag.Int("camera", -1, "camera device ID for the local producer (-1 disables)")
	useTray := flag.Bool("tray", false, "show the system tray menu")
	flag.Parse()

	fmt.Println("Handstrike - Hand Tracking to Physics Impulses")

	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".handstrike")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dataDir, "handstrike.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg, err := st.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cal := tracking.Calibrate(cameraPosition, cameraForward, cameraFOV, cameraAspect, &ballHome)
	if cal.Degraded {
		log.Println("Calibration degraded, projecting at default depth")
	}

	world := physics.NewWorld()

	var coordinator *app.App
	coordinator, err = app.New(app.Config{
		Pipeline:    cfg,
		Calibration: cal,
		Engine:      world,
		Store:       st,
		TickHook: func(dt float64) {
			world.Step(dt)
			for _, t := range coordinator.Targets() {
				if body, ok := world.Body(t.ID); ok {
					coordinator.UpdateTargetPosition(t.ID, body.Position)
				}
			}
		},
	})
	if err != nil {
		log.Fatalf("Failed to initialize coordinator: %v", err)
	}

	registerTargets(coordinator, world, st)

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Wire the server's hit observers before the tick loop starts.
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       coordinator,
	})

	if err := coordinator.Start(); err != nil {
		log.Fatalf("Failed to start coordinator: %v", err)
	}
	defer coordinator.Stop()

	if *cameraID >= 0 {
		stopProducer := startProducer(*cameraID, coordinator)
		defer stopProducer()
	}

	fmt.Printf("Starting server on %s\n", *addr)

	if *useTray {
		go func() {
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
		runTray(coordinator, world)
		return
	}

	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("Shutting down")
}

// registerTargets loads persisted targets into the coordinator and the
// physics world, seeding a default ball on first run.
func registerTargets(coordinator *app.App, world *physics.World, st *store.Store) {
	targets, err := st.ListTargets()
	if err != nil {
		log.Printf("Failed to load targets: %v", err)
	}

	if len(targets) == 0 {
		if err := st.SaveTarget("ball", "Ball", ballHome); err != nil {
			log.Printf("Failed to persist default target: %v", err)
		}
		targets = []store.Target{{ID: "ball", Name: "Ball", Position: ballHome}}
	}

	for _, t := range targets {
		coordinator.RegisterTarget(t.ID, t.Name, t.Position)
		world.AddBody(physics.Body{
			ID:       t.ID,
			Position: t.Position,
			Mass:     ballMass,
			Radius:   ballRadius,
		})
	}
}

// startProducer runs the local capture loop: read a frame, skip pose
// inference while the scene is still, otherwise detect and submit landmarks
// to the coordinator. Returns a function that stops the loop and releases
// the camera.
func startProducer(deviceID int, coordinator *app.App) func() {
	cam := capture.NewCamera(deviceID)
	if err := cam.Open(); err != nil {
		log.Printf("Failed to open camera %d: %v", deviceID, err)
		return func() {}
	}

	det, err := detector.NewPoseDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("Failed to initialize pose detector: %v", err)
		cam.Close()
		return func() {}
	}

	gate := capture.NewActivityGate(activityThreshold)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(cam.FPS()))
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mat, err := cam.ReadFrame()
				if err != nil {
					continue
				}

				if active, _ := gate.Check(mat); !active {
					mat.Close()
					continue
				}

				frame, err := det.Detect(mat)
				mat.Close()
				if err != nil {
					log.Printf("Pose detection failed: %v", err)
					continue
				}
				if frame != nil {
					coordinator.SubmitFrame(frame.Landmarks, frame.ImageWidth, frame.ImageHeight)
				}
			}
		}
	}()

	return func() {
		close(done)
		det.Close()
		cam.Close()
		gate.Close()
	}
}

// runTray blocks in the system tray event loop until Quit is selected.
func runTray(coordinator *app.App, world *physics.World) {
	t := tray.New()

	t.OnToggle(func(enabled bool) {
		coordinator.SetEnabled(enabled)
	})
	t.OnReset(func() {
		for _, target := range coordinator.Targets() {
			world.ResetBody(target.ID, ballHome)
			coordinator.ResetTarget(target.ID)
		}
		coordinator.ResetTracking()
	})
	t.OnQuit(func() {
		fmt.Println("Shutting down")
	})

	coordinator.OnHit(func(hit impact.Hit) {
		t.SetLastHit(hit.TargetID, hit.Magnitude)
	})

	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.handstrike/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handstrike", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
