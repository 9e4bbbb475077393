// Package collision implements the heuristic hand-to-target collision test.
// It deliberately runs outside any physics engine: a hit is a conjunction of
// cheap geometric and kinematic gates, not a solver contact.
package collision

import (
	"time"

	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/tracking"
	"github.com/ayusman/handstrike/internal/vec"
)

// AlignmentThreshold is the minimum cosine between the hand velocity and the
// direction to the target. 0.3 corresponds to roughly a 70° half-angle cone:
// the hand must be moving generally toward the target. Empirically tuned.
const AlignmentThreshold = 0.3

// Event describes one detected hit. Events are transient: constructed,
// delivered, and discarded within a single tick.
type Event struct {
	TargetID       string
	ContactPoint   vec.Vec3
	ImpactVelocity vec.Vec3
	Timestamp      time.Time
}

// Detector runs the collision heuristic for a single hand. Each tracked hand
// owns an independent Detector, so the cooldown is per hand, not per target:
// both hands can hit the same target within one cooldown window.
type Detector struct {
	cfg         config.Config
	lastHitTime time.Time
}

// NewDetector creates a Detector with the given configuration.
func NewDetector(cfg config.Config) *Detector {
	return &Detector{cfg: cfg}
}

// Check evaluates the collision gates for the hand against a target.
// Gates run in a fixed order, cheapest first, and short-circuit on the first
// failure:
//
//  1. hand tracked
//  2. detector cooldown elapsed
//  3. target within detection range
//  4. hand speed above minimum
//  5. hand velocity aligned toward the target
//
// On success it returns the Event and stamps the detector's cooldown.
func (d *Detector) Check(hand tracking.HandState, targetPosition vec.Vec3, targetID string, now time.Time) (Event, bool) {
	if !hand.Tracked {
		return Event{}, false
	}

	if !d.lastHitTime.IsZero() && now.Sub(d.lastHitTime).Seconds() < d.cfg.HitCooldown {
		return Event{}, false
	}

	toTarget := targetPosition.Sub(hand.Position)
	if toTarget.Length() > d.cfg.CollisionDetectionRange {
		return Event{}, false
	}

	if hand.Speed < d.cfg.MinHitVelocity {
		return Event{}, false
	}

	dir := toTarget.Normalize()
	alignment := hand.Velocity.Normalize().Dot(dir)
	if alignment < AlignmentThreshold {
		return Event{}, false
	}

	d.lastHitTime = now

	return Event{
		TargetID:       targetID,
		ContactPoint:   hand.Position.Add(dir.Scale(d.cfg.HandColliderRadius)),
		ImpactVelocity: hand.Velocity,
		Timestamp:      now,
	}, true
}

// Reset clears the detector's cooldown.
func (d *Detector) Reset() {
	d.lastHitTime = time.Time{}
}
