// Package app provides the coordinator that sequences the tracking-to-impulse
// pipeline against an asynchronously arriving landmark stream.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handstrike/internal/collision"
	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/impact"
	"github.com/ayusman/handstrike/internal/store"
	"github.com/ayusman/handstrike/internal/tracking"
	"github.com/ayusman/handstrike/internal/vec"
)

// TickRate is the consumer tick frequency in Hz. Producers typically deliver
// frames at 15-30 Hz, so most ticks drain zero or one frame.
const TickRate = 60

// State is the coordinator lifecycle state.
type State int

const (
	// Uninitialized means the coordinator has no validated wiring.
	Uninitialized State = iota
	// Ready means configuration and components are wired and validated.
	Ready
	// Running means the tick loop is active.
	Running
)

// ErrNotReady is returned by Start when the coordinator is not in the Ready
// state.
var ErrNotReady = errors.New("coordinator is not ready")

// Target is a registered hit target. Its position is pushed in by whoever
// owns the body (the physics engine), not polled.
type Target struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position vec.Vec3 `json:"position"`
}

// Config wires the coordinator's collaborators.
type Config struct {
	// Pipeline is the tunable set shared by all components. Clamped by the
	// caller on load.
	Pipeline config.Config

	// Calibration is the camera calibration the mapper projects through.
	Calibration *tracking.CalibrationState

	// Engine is the physics egress for resolved impulses.
	Engine impact.Engine

	// Store, when set, receives one hit log row per resolved impact.
	Store *store.Store

	// TickHook, when set, runs at the start of every tick with the tick
	// duration in seconds. The bundled physics world steps through this.
	TickHook func(dt float64)
}

// App is the coordinator: a thread-safe ingestion queue decoupling the
// detector's callback cadence from the simulation tick, plus the per-tick
// sequencing of trackers, collision checks, and force resolution.
//
// All tracking and collision state is mutated exclusively on the consumer
// tick; the ingestion queue is the only producer/consumer shared state and
// its lock is held only for enqueue and drain.
type App struct {
	cfg Config

	tracker       *tracking.Tracker
	rightDetector *collision.Detector
	leftDetector  *collision.Detector
	resolver      *impact.Resolver

	queueMu sync.Mutex
	queue   []*detector.Frame

	opsMu sync.Mutex
	ops   []func()

	targetsMu sync.RWMutex
	targets   map[string]*Target

	snapMu    sync.RWMutex
	snapRight tracking.HandState
	snapLeft  tracking.HandState

	hitMu sync.RWMutex
	onHit []func(impact.Hit)

	runMu   sync.Mutex
	state   State
	stopCh  chan struct{}
	enabled bool
}

// New creates a coordinator in the Ready state. The engine and calibration
// are required; everything else is optional.
func New(cfg Config) (*App, error) {
	if cfg.Engine == nil {
		return nil, errors.New("app: physics engine is required")
	}
	if cfg.Calibration == nil {
		return nil, errors.New("app: calibration is required")
	}

	mapper := tracking.NewMapperWithDepth(cfg.Calibration,
		cfg.Pipeline.BaseDepthOffset, cfg.Pipeline.DepthScale)

	a := &App{
		cfg:           cfg,
		tracker:       tracking.NewTracker(cfg.Pipeline, mapper),
		rightDetector: collision.NewDetector(cfg.Pipeline),
		leftDetector:  collision.NewDetector(cfg.Pipeline),
		targets:       make(map[string]*Target),
		state:         Ready,
		enabled:       true,
	}

	a.resolver = impact.NewResolver(cfg.Pipeline, cfg.Engine)
	a.resolver.OnHit(a.handleHit)

	return a, nil
}

// handleHit runs on the tick context for every resolved impact: it logs the
// hit to the store and forwards the notification to the registered observer.
func (a *App) handleHit(hit impact.Hit) {
	if a.cfg.Store != nil {
		if _, err := a.cfg.Store.RecordHit(hit.TargetID, hit.Direction, hit.Magnitude); err != nil {
			log.Printf("Failed to log hit for %s: %v", hit.TargetID, err)
		}
	}
	a.hitMu.RLock()
	observers := a.onHit
	a.hitMu.RUnlock()

	for _, fn := range observers {
		fn(hit)
	}
}

// OnHit registers a fire-and-forget hit observer. Callbacks run
// synchronously on the tick that resolved the hit. Safe to call from any
// goroutine; hits resolved before registration are not replayed.
func (a *App) OnHit(fn func(impact.Hit)) {
	a.hitMu.Lock()
	defer a.hitMu.Unlock()
	a.onHit = append(a.onHit, fn)
}

// SubmitFrame enqueues one detector output. Safe to call from any goroutine;
// it never blocks the caller beyond the queue lock.
func (a *App) SubmitFrame(landmarks []detector.Landmark, imageWidth, imageHeight int) {
	a.enqueue(&detector.Frame{
		Landmarks:   landmarks,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		Timestamp:   time.Now().UnixMilli(),
	})
}

func (a *App) enqueue(frame *detector.Frame) {
	a.queueMu.Lock()
	a.queue = append(a.queue, frame)
	a.queueMu.Unlock()
}

// drain atomically takes the whole ingestion queue in arrival order.
func (a *App) drain() []*detector.Frame {
	a.queueMu.Lock()
	frames := a.queue
	a.queue = nil
	a.queueMu.Unlock()
	return frames
}

// schedule runs fn immediately when the tick loop is stopped, otherwise
// defers it to the start of the next tick so it cannot race tracker or
// collision state.
func (a *App) schedule(fn func()) {
	a.runMu.Lock()
	running := a.state == Running
	a.runMu.Unlock()

	if !running {
		fn()
		return
	}

	a.opsMu.Lock()
	a.ops = append(a.ops, fn)
	a.opsMu.Unlock()
}

// runPending executes the operations deferred by schedule, on the tick.
func (a *App) runPending() {
	a.opsMu.Lock()
	ops := a.ops
	a.ops = nil
	a.opsMu.Unlock()

	for _, fn := range ops {
		fn()
	}
}

// Tick runs one consumer step: drain the queue completely in FIFO order,
// update the hand trackers per frame, then run collision checks for every
// (enabled hand, registered target) pair and resolve any hits.
func (a *App) Tick(now time.Time) {
	a.runPending()

	if a.cfg.TickHook != nil {
		a.cfg.TickHook(1.0 / TickRate)
	}

	frames := a.drain()

	if !a.IsEnabled() {
		// Drained frames are discarded while disabled so the queue cannot
		// grow unbounded; tracker state stays frozen.
		return
	}

	for _, frame := range frames {
		a.tracker.Update(frame, frameTime(frame, now))
	}

	a.snapMu.Lock()
	a.snapRight = a.tracker.Right()
	a.snapLeft = a.tracker.Left()
	a.snapMu.Unlock()

	a.targetsMu.RLock()
	targets := make([]Target, 0, len(a.targets))
	for _, t := range a.targets {
		targets = append(targets, *t)
	}
	a.targetsMu.RUnlock()

	for _, target := range targets {
		a.checkHand(a.rightDetector, a.tracker.Right(), target, now)
		a.checkHand(a.leftDetector, a.tracker.Left(), target, now)
	}
}

func (a *App) checkHand(det *collision.Detector, hand tracking.HandState, target Target, now time.Time) {
	ev, ok := det.Check(hand, target.Position, target.ID, now)
	if !ok {
		return
	}
	if err := a.resolver.ApplyHit(ev); err != nil {
		log.Printf("Failed to resolve hit on %s: %v", target.ID, err)
	}
}

// frameTime prefers the frame's capture timestamp for velocity estimation,
// falling back to the tick time for producers that do not stamp frames.
func frameTime(frame *detector.Frame, now time.Time) time.Time {
	if frame.Timestamp > 0 {
		return time.UnixMilli(frame.Timestamp)
	}
	return now
}

// Start transitions Ready → Running and begins the tick loop.
func (a *App) Start() error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.state == Running {
		return nil
	}
	if a.state != Ready {
		return ErrNotReady
	}

	a.stopCh = make(chan struct{})
	a.state = Running
	go a.run(a.stopCh)

	log.Println("Coordinator started")
	return nil
}

func (a *App) run(stopCh chan struct{}) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			a.Tick(now)
		}
	}
}

// Stop tears the coordinator down: Running → Uninitialized.
func (a *App) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.state != Running {
		return
	}

	close(a.stopCh)
	a.stopCh = nil
	a.state = Uninitialized

	log.Println("Coordinator stopped")
}

// CurrentState returns the lifecycle state.
func (a *App) CurrentState() State {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.state
}

// SetEnabled enables or disables frame processing without stopping the tick
// loop. While disabled, queued frames are discarded.
func (a *App) SetEnabled(enabled bool) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether frame processing is enabled.
func (a *App) IsEnabled() bool {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.enabled
}

// RegisterTarget adds a hit target at an initial position. Registering an
// existing ID moves it.
func (a *App) RegisterTarget(id, name string, position vec.Vec3) {
	a.targetsMu.Lock()
	defer a.targetsMu.Unlock()
	a.targets[id] = &Target{ID: id, Name: name, Position: position}
}

// UnregisterTarget removes a hit target. Unknown IDs are a no-op.
func (a *App) UnregisterTarget(id string) {
	a.targetsMu.Lock()
	defer a.targetsMu.Unlock()
	delete(a.targets, id)
}

// UpdateTargetPosition moves a registered target; called by the body owner
// as the target moves. Unknown IDs are a no-op.
func (a *App) UpdateTargetPosition(id string, position vec.Vec3) {
	a.targetsMu.Lock()
	defer a.targetsMu.Unlock()
	if t, ok := a.targets[id]; ok {
		t.Position = position
	}
}

// Targets returns a snapshot of the registered targets.
func (a *App) Targets() []Target {
	a.targetsMu.RLock()
	defer a.targetsMu.RUnlock()

	out := make([]Target, 0, len(a.targets))
	for _, t := range a.targets {
		out = append(out, *t)
	}
	return out
}

// HandStates returns a snapshot of both hands as of the last tick. Safe to
// call from any goroutine.
func (a *App) HandStates() (right, left tracking.HandState) {
	a.snapMu.RLock()
	defer a.snapMu.RUnlock()
	return a.snapRight, a.snapLeft
}

// HitRecord returns the in-memory hit record for a target.
func (a *App) HitRecord(targetID string) (impact.HitRecord, bool) {
	return a.resolver.Record(targetID)
}

// HitRecords returns all in-memory hit records.
func (a *App) HitRecords() map[string]impact.HitRecord {
	return a.resolver.Records()
}

// ResetTracking resets both hands' estimators and smoothed positions and
// clears the collision cooldowns. Safe to call from any goroutine: while the
// tick loop is running the reset is applied at the start of the next tick.
func (a *App) ResetTracking() {
	a.schedule(a.resetTracking)
}

func (a *App) resetTracking() {
	a.tracker.ResetTracking()
	a.rightDetector.Reset()
	a.leftDetector.Reset()

	a.snapMu.Lock()
	a.snapRight = a.tracker.Right()
	a.snapLeft = a.tracker.Left()
	a.snapMu.Unlock()
}

// ResetTarget clears a target's hit statistics, in memory and in the store.
// Safe to call from any goroutine; applied on the next tick while running.
func (a *App) ResetTarget(targetID string) {
	a.schedule(func() { a.resetTarget(targetID) })
}

func (a *App) resetTarget(targetID string) {
	a.resolver.ResetTarget(targetID)
	if a.cfg.Store != nil {
		if err := a.cfg.Store.ResetHits(targetID); err != nil {
			log.Printf("Failed to reset hit log for %s: %v", targetID, err)
		}
	}
}
