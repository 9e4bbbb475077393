// Package physics provides a minimal rigid-body world so the application is
// playable without an external engine. It implements the impulse egress the
// impact resolver expects; any real engine can be substituted through the
// same interface.
package physics

import (
	"sync"

	"github.com/ayusman/handstrike/internal/impact"
	"github.com/ayusman/handstrike/internal/vec"
)

// Simulation constants.
const (
	// Gravity is the downward acceleration in m/s².
	Gravity = 9.81
	// LinearDamping removes a fraction of linear velocity per second.
	LinearDamping = 0.2
	// AngularDamping removes a fraction of angular velocity per second.
	AngularDamping = 0.5
	// FloorRestitution is the velocity fraction kept on a floor bounce.
	FloorRestitution = 0.6
)

// Body is a spherical rigid body.
type Body struct {
	ID              string
	Position        vec.Vec3
	Velocity        vec.Vec3
	AngularVelocity vec.Vec3
	Mass            float64
	Radius          float64
}

// inertia returns the moment of inertia of the body treated as a solid
// sphere: 2/5·m·r².
func (b *Body) inertia() float64 {
	return 0.4 * b.Mass * b.Radius * b.Radius
}

// World integrates a set of bodies under gravity with simple damping and a
// floor plane at y = 0. It is safe for concurrent use: the simulation tick
// and the HTTP surface both read body state.
type World struct {
	mu     sync.Mutex
	bodies map[string]*Body
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{bodies: make(map[string]*Body)}
}

// AddBody inserts a body. A zero or negative mass is coerced to 1 so
// impulse division stays defined.
func (w *World) AddBody(b Body) {
	if b.Mass <= 0 {
		b.Mass = 1
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bodies[b.ID] = &b
}

// RemoveBody deletes a body. Removing an unknown body is a no-op.
func (w *World) RemoveBody(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.bodies, id)
}

// Body returns a snapshot of the body state.
func (w *World) Body(id string) (Body, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.bodies {
		b.Velocity.Y -= Gravity * dt
		b.Velocity = b.Velocity.Scale(1 - LinearDamping*dt)
		b.AngularVelocity = b.AngularVelocity.Scale(1 - AngularDamping*dt)
		b.Position = b.Position.Add(b.Velocity.Scale(dt))

		// Floor bounce.
		if b.Position.Y < b.Radius {
			b.Position.Y = b.Radius
			if b.Velocity.Y < 0 {
				b.Velocity.Y = -b.Velocity.Y * FloorRestitution
			}
		}
	}
}

// ApplyImpulse applies an instantaneous linear impulse to the body. When at
// is non-nil, the offset between the application point and the body center
// additionally imparts spin.
func (w *World) ApplyImpulse(targetID string, force vec.Vec3, at *vec.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[targetID]
	if !ok {
		return impact.ErrUnknownTarget
	}

	b.Velocity = b.Velocity.Add(force.Scale(1 / b.Mass))

	if at != nil {
		lever := at.Sub(b.Position)
		b.AngularVelocity = b.AngularVelocity.Add(lever.Cross(force).Scale(1 / b.inertia()))
	}

	return nil
}

// ApplyTorqueImpulse applies an instantaneous angular impulse to the body.
func (w *World) ApplyTorqueImpulse(targetID string, torque vec.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[targetID]
	if !ok {
		return impact.ErrUnknownTarget
	}

	b.AngularVelocity = b.AngularVelocity.Add(torque.Scale(1 / b.inertia()))
	return nil
}

// ResetBody moves a body back to a position at rest.
func (w *World) ResetBody(id string, position vec.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.bodies[id]
	if !ok {
		return
	}
	b.Position = position
	b.Velocity = vec.Vec3{}
	b.AngularVelocity = vec.Vec3{}
}
