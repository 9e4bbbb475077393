// Package impact converts collision events into bounded impulse/torque pairs
// and forwards them to a physics engine.
package impact

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/handstrike/internal/collision"
	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/vec"
)

// TorqueCoupling scales the spin impulse imparted alongside the linear
// impulse. A fixed 10% coupling, kept purely for visual realism; not derived
// physics.
const TorqueCoupling = 0.1

// ErrUnknownTarget is returned by an Engine when the target body does not
// exist (destroyed or never registered). The resolver treats it as a no-op.
var ErrUnknownTarget = errors.New("unknown target")

// Engine is the physics egress. Implementations integrate the impulses into
// body motion; this package never simulates anything itself.
type Engine interface {
	// ApplyImpulse applies an instantaneous linear impulse to the target,
	// at the given world point, or at the body center when at is nil.
	ApplyImpulse(targetID string, force vec.Vec3, at *vec.Vec3) error

	// ApplyTorqueImpulse applies an instantaneous angular impulse.
	ApplyTorqueImpulse(targetID string, torque vec.Vec3) error
}

// HitRecord accumulates hit statistics for one target. It is reset only by
// an explicit ResetTarget.
type HitRecord struct {
	HitCount           int       `json:"hit_count"`
	LastHitTime        time.Time `json:"last_hit_time"`
	LastImpactVelocity vec.Vec3  `json:"last_impact_velocity"`
}

// Hit is the fire-and-forget notification emitted after a resolved impact,
// for observers such as scoring or effects. It is not part of the physical
// contract.
type Hit struct {
	TargetID  string    `json:"target_id"`
	Direction vec.Vec3  `json:"direction"`
	Magnitude float64   `json:"magnitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Resolver turns collision events into engine impulses and tracks per-target
// hit statistics. ApplyHit runs on the consumer tick context; the record
// accessors are safe to call from any goroutine.
type Resolver struct {
	cfg    config.Config
	engine Engine
	onHit  func(Hit)

	mu      sync.Mutex
	records map[string]*HitRecord
}

// NewResolver creates a Resolver forwarding impulses to the given engine.
func NewResolver(cfg config.Config, engine Engine) *Resolver {
	return &Resolver{
		cfg:     cfg,
		engine:  engine,
		records: make(map[string]*HitRecord),
	}
}

// OnHit registers the hit notification observer. The callback runs
// synchronously from the tick that resolved the hit.
func (r *Resolver) OnHit(fn func(Hit)) {
	r.onHit = fn
}

// ApplyHit resolves a collision event into an impulse/torque pair.
//
// The impulse direction blends the hand velocity direction with a configured
// upward lift; its magnitude is speed·forceMultiplier hard-clamped to
// maxForce. A missing target is a no-op, not an error.
func (r *Resolver) ApplyHit(ev collision.Event) error {
	speed := ev.ImpactVelocity.Length()
	if speed == 0 {
		return nil
	}

	direction := ev.ImpactVelocity.Normalize().Add(vec.Up.Scale(r.cfg.UpwardLiftFactor)).Normalize()

	magnitude := speed * r.cfg.ForceMultiplier
	if magnitude > r.cfg.MaxForce {
		magnitude = r.cfg.MaxForce
	}

	force := direction.Scale(magnitude)

	var at *vec.Vec3
	if r.cfg.ApplyForceAtPoint {
		point := ev.ContactPoint
		at = &point
	}

	if err := r.engine.ApplyImpulse(ev.TargetID, force, at); err != nil {
		if errors.Is(err, ErrUnknownTarget) {
			return nil
		}
		return fmt.Errorf("apply impulse to %s: %w", ev.TargetID, err)
	}

	torque := direction.Cross(vec.Up).Scale(magnitude * TorqueCoupling)
	if err := r.engine.ApplyTorqueImpulse(ev.TargetID, torque); err != nil && !errors.Is(err, ErrUnknownTarget) {
		return fmt.Errorf("apply torque to %s: %w", ev.TargetID, err)
	}

	r.mu.Lock()
	rec := r.records[ev.TargetID]
	if rec == nil {
		rec = &HitRecord{}
		r.records[ev.TargetID] = rec
	}
	rec.HitCount++
	rec.LastHitTime = ev.Timestamp
	rec.LastImpactVelocity = ev.ImpactVelocity
	r.mu.Unlock()

	if r.onHit != nil {
		r.onHit(Hit{
			TargetID:  ev.TargetID,
			Direction: direction,
			Magnitude: magnitude,
			Timestamp: ev.Timestamp,
		})
	}

	return nil
}

// Record returns the hit record for a target.
func (r *Resolver) Record(targetID string) (HitRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[targetID]
	if !ok {
		return HitRecord{}, false
	}
	return *rec, true
}

// Records returns a copy of all per-target hit records.
func (r *Resolver) Records() map[string]HitRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]HitRecord, len(r.records))
	for id, rec := range r.records {
		out[id] = *rec
	}
	return out
}

// ResetTarget clears the hit record for a target.
func (r *Resolver) ResetTarget(targetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, targetID)
}
