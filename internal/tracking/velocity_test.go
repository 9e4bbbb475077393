package tracking

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/handstrike/internal/vec"
)

func TestEstimator_ConstantSpeed(t *testing.T) {
	e := NewEstimator(5)

	// Straight line along +X at 2 m/s, sampled at 60 Hz.
	const speed = 2.0
	start := time.Now()
	step := time.Second / 60

	for i := 0; i < 10; i++ {
		ts := start.Add(time.Duration(i) * step)
		pos := vec.Vec3{X: speed * ts.Sub(start).Seconds()}
		e.Update(pos, ts)
	}

	if got := e.Speed(); math.Abs(got-speed)/speed > 0.01 {
		t.Errorf("Speed() = %f, want %f within 1%%", got, speed)
	}

	v := e.Velocity()
	if v.X <= 0 || math.Abs(v.Y) > 1e-9 || math.Abs(v.Z) > 1e-9 {
		t.Errorf("Velocity() = %+v, want along +X only", v)
	}
}

func TestEstimator_DegenerateTimestepExcluded(t *testing.T) {
	e := NewEstimator(5)
	start := time.Now()

	e.Update(vec.Vec3{X: 0}, start)
	e.Update(vec.Vec3{X: 1}, start.Add(100*time.Millisecond)) // 10 m/s pair

	// Same-instant duplicate sample: a naive Δt division would blow up.
	e.Update(vec.Vec3{X: 5}, start.Add(100*time.Millisecond))

	if got := e.Speed(); math.Abs(got-10) > 1e-6 {
		t.Errorf("Speed() = %f, want 10 (degenerate pair must be excluded)", got)
	}
}

func TestEstimator_WindowEviction(t *testing.T) {
	e := NewEstimator(3)
	start := time.Now()
	step := 10 * time.Millisecond

	// Slow samples first, then fast: with a window of 3, the early slow
	// pairs must age out and the estimate converge to the fast speed.
	for i := 0; i < 5; i++ {
		e.Update(vec.Vec3{X: 0.01 * float64(i)}, start.Add(time.Duration(i)*step))
	}
	for i := 5; i < 12; i++ {
		e.Update(vec.Vec3{X: 0.01*4 + 0.1*float64(i-4)}, start.Add(time.Duration(i)*step))
	}

	want := 0.1 / step.Seconds()
	if got := e.Speed(); math.Abs(got-want)/want > 0.01 {
		t.Errorf("Speed() = %f, want %f after window turnover", got, want)
	}
}

func TestEstimator_Acceleration(t *testing.T) {
	e := NewEstimator(2)
	start := time.Now()

	e.Update(vec.Vec3{X: 0}, start)
	e.Update(vec.Vec3{X: 0.1}, start.Add(100*time.Millisecond)) // 1 m/s
	e.Update(vec.Vec3{X: 0.4}, start.Add(200*time.Millisecond)) // 3 m/s

	// Velocity stepped from 1 to 3 m/s over 0.1 s.
	a := e.Acceleration()
	if math.Abs(a.X-20) > 1e-6 {
		t.Errorf("Acceleration().X = %f, want 20", a.X)
	}
}

func TestEstimator_MinimumWindowSize(t *testing.T) {
	e := NewEstimator(0)
	if e.size != 2 {
		t.Errorf("window size = %d, want clamped minimum 2", e.size)
	}
}

func TestEstimator_Reset(t *testing.T) {
	e := NewEstimator(4)
	start := time.Now()
	e.Update(vec.Vec3{X: 0}, start)
	e.Update(vec.Vec3{X: 1}, start.Add(50*time.Millisecond))

	e.Reset()

	if e.Speed() != 0 {
		t.Errorf("Speed() after Reset = %f, want 0", e.Speed())
	}
	if e.Velocity() != (vec.Vec3{}) || e.Acceleration() != (vec.Vec3{}) {
		t.Error("derived values not zeroed by Reset")
	}
	if len(e.samples) != 0 {
		t.Errorf("window holds %d samples after Reset, want 0", len(e.samples))
	}
}
