package tracking

import (
	"time"

	"github.com/ayusman/handstrike/internal/vec"
)

// minSampleInterval filters numerically degenerate sample pairs out of the
// velocity average. Pairs closer together than this are excluded, not
// treated as errors.
const minSampleInterval = time.Millisecond

type velocitySample struct {
	pos vec.Vec3
	t   time.Time
}

// Estimator derives averaged velocity and instantaneous acceleration for one
// tracked point from a bounded window of (position, timestamp) samples.
// It is owned exclusively by the tracker for that point and is not safe for
// concurrent use.
type Estimator struct {
	samples      []velocitySample
	size         int
	velocity     vec.Vec3
	acceleration vec.Vec3
	lastUpdate   time.Time
}

// NewEstimator creates an Estimator with the given window size (minimum 2).
func NewEstimator(sampleSize int) *Estimator {
	if sampleSize < 2 {
		sampleSize = 2
	}
	return &Estimator{
		samples: make([]velocitySample, 0, sampleSize),
		size:    sampleSize,
	}
}

// Update pushes a new sample and re-derives velocity and acceleration.
//
// Velocity is the arithmetic mean of per-consecutive-pair finite differences
// Δposition/Δt across the window, skipping pairs with Δt ≤ 1ms.
// Acceleration uses the most recent inter-update interval and keeps its
// previous value when that interval is degenerate.
func (e *Estimator) Update(pos vec.Vec3, t time.Time) {
	e.samples = append(e.samples, velocitySample{pos: pos, t: t})
	if len(e.samples) > e.size {
		copy(e.samples, e.samples[1:])
		e.samples = e.samples[:e.size]
	}

	prevVelocity := e.velocity

	var sum vec.Vec3
	pairs := 0
	for i := 1; i < len(e.samples); i++ {
		dt := e.samples[i].t.Sub(e.samples[i-1].t)
		if dt <= minSampleInterval {
			continue
		}
		delta := e.samples[i].pos.Sub(e.samples[i-1].pos)
		sum = sum.Add(delta.Scale(1 / dt.Seconds()))
		pairs++
	}
	if pairs > 0 {
		e.velocity = sum.Scale(1 / float64(pairs))
	}

	if !e.lastUpdate.IsZero() {
		dt := t.Sub(e.lastUpdate)
		if dt > minSampleInterval {
			e.acceleration = e.velocity.Sub(prevVelocity).Scale(1 / dt.Seconds())
		}
	}
	e.lastUpdate = t
}

// Velocity returns the current averaged velocity.
func (e *Estimator) Velocity() vec.Vec3 {
	return e.velocity
}

// Acceleration returns the most recent instantaneous acceleration.
func (e *Estimator) Acceleration() vec.Vec3 {
	return e.acceleration
}

// Speed returns the magnitude of the averaged velocity.
func (e *Estimator) Speed() float64 {
	return e.velocity.Length()
}

// Reset discards the sample window and zeroes all derived values.
func (e *Estimator) Reset() {
	e.samples = e.samples[:0]
	e.velocity = vec.Vec3{}
	e.acceleration = vec.Vec3{}
	e.lastUpdate = time.Time{}
}
