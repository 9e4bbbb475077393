package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/handstrike/internal/impact"
	"github.com/ayusman/handstrike/internal/vec"
)

func testBall() Body {
	return Body{
		ID:       "ball",
		Position: vec.Vec3{Y: 1},
		Mass:     2,
		Radius:   0.15,
	}
}

func TestApplyImpulse_ChangesVelocityByMass(t *testing.T) {
	w := NewWorld()
	w.AddBody(testBall())

	if err := w.ApplyImpulse("ball", vec.Vec3{Z: -4}, nil); err != nil {
		t.Fatalf("ApplyImpulse() error = %v", err)
	}

	b, _ := w.Body("ball")
	// Δv = impulse / mass = −4 / 2.
	if math.Abs(b.Velocity.Z+2) > 1e-9 {
		t.Errorf("Velocity.Z = %f, want -2", b.Velocity.Z)
	}
}

func TestApplyImpulse_OffCenterImpartsSpin(t *testing.T) {
	w := NewWorld()
	w.AddBody(testBall())

	at := vec.Vec3{X: 0.1, Y: 1} // offset from the center along X
	if err := w.ApplyImpulse("ball", vec.Vec3{Z: -4}, &at); err != nil {
		t.Fatalf("ApplyImpulse() error = %v", err)
	}

	b, _ := w.Body("ball")
	if b.AngularVelocity.Length() == 0 {
		t.Error("off-center impulse must impart angular velocity")
	}

	// A centered impulse must not.
	w.AddBody(testBall())
	center := vec.Vec3{Y: 1}
	w.ApplyImpulse("ball", vec.Vec3{Z: -4}, &center)
	b, _ = w.Body("ball")
	if b.AngularVelocity.Length() != 0 {
		t.Error("centered impulse must not impart angular velocity")
	}
}

func TestApplyImpulse_UnknownTarget(t *testing.T) {
	w := NewWorld()

	err := w.ApplyImpulse("ghost", vec.Vec3{Z: 1}, nil)
	if !errors.Is(err, impact.ErrUnknownTarget) {
		t.Errorf("error = %v, want ErrUnknownTarget", err)
	}

	if err := w.ApplyTorqueImpulse("ghost", vec.Vec3{X: 1}); !errors.Is(err, impact.ErrUnknownTarget) {
		t.Errorf("torque error = %v, want ErrUnknownTarget", err)
	}
}

func TestStep_GravityAndFloor(t *testing.T) {
	w := NewWorld()
	w.AddBody(testBall())

	// Integrate two simulated seconds in 60 Hz steps; the ball must come to
	// rest on the floor plane, not below it.
	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}

	b, _ := w.Body("ball")
	if b.Position.Y < b.Radius-1e-9 {
		t.Errorf("ball sank below the floor: y = %f, radius = %f", b.Position.Y, b.Radius)
	}
}

func TestResetBody(t *testing.T) {
	w := NewWorld()
	w.AddBody(testBall())
	w.ApplyImpulse("ball", vec.Vec3{X: 10}, nil)
	w.Step(0.5)

	home := vec.Vec3{Y: 1}
	w.ResetBody("ball", home)

	b, _ := w.Body("ball")
	if b.Position != home {
		t.Errorf("Position = %+v, want %+v", b.Position, home)
	}
	if b.Velocity != (vec.Vec3{}) || b.AngularVelocity != (vec.Vec3{}) {
		t.Error("ResetBody must zero linear and angular velocity")
	}
}
