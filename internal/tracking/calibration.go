// Package tracking converts normalized detector landmarks into world-space
// hand state: calibration, coordinate mapping, velocity estimation, and
// per-hand tracking.
package tracking

import (
	"math"

	"github.com/ayusman/handstrike/internal/vec"
)

// DefaultDepth is the fallback calibration depth, in world length units,
// used when no reference point is available.
const DefaultDepth = 2.0

// CalibrationState holds the depth and projection scale derived from a single
// known reference point. It is created once per tracking-camera setup and
// recomputed on demand, never per frame. A CalibrationState is passed
// explicitly into the components that need it; there is no global calibrator.
type CalibrationState struct {
	CameraPosition    vec.Vec3
	CameraForward     vec.Vec3 // unit length
	ReferencePosition vec.Vec3
	Depth             float64 // signed projection of (reference − camera) onto forward
	FOVDegrees        float64
	Aspect            float64
	Calibrated        bool
	Degraded          bool // true when the default depth fallback was used

	// Camera basis, derived once at calibration.
	right vec.Vec3
	up    vec.Vec3

	// Lazily derived viewport scale, invalidated when Depth or FOVDegrees
	// change between calls.
	cachedDepth  float64
	cachedFOV    float64
	cachedHeight float64
	cachedWidth  float64
	cacheValid   bool
}

// Calibrate derives a CalibrationState from the camera pose and a known
// reference point in world space. If reference is nil the state falls back to
// DefaultDepth and is flagged as degraded; calibration never fails.
//
// The depth must be recalculated (by calling Calibrate again) whenever the
// camera or the reference moves.
func Calibrate(cameraPosition, cameraForward vec.Vec3, fovDegrees, aspect float64, reference *vec.Vec3) *CalibrationState {
	forward := cameraForward.Normalize()
	if forward == (vec.Vec3{}) {
		forward = vec.Vec3{Z: -1}
	}

	c := &CalibrationState{
		CameraPosition: cameraPosition,
		CameraForward:  forward,
		FOVDegrees:     fovDegrees,
		Aspect:         aspect,
		Calibrated:     true,
	}

	if reference != nil {
		c.ReferencePosition = *reference
		c.Depth = reference.Sub(cameraPosition).Dot(forward)
		if c.Depth <= 0 {
			// Reference behind the camera; keep tracking usable.
			c.Depth = DefaultDepth
			c.Degraded = true
		}
	} else {
		c.Depth = DefaultDepth
		c.Degraded = true
	}

	// Camera basis from forward and world up. A forward axis parallel to
	// world up degenerates; substitute the Z axis for the up reference.
	upRef := vec.Up
	if math.Abs(forward.Dot(upRef)) > 0.999 {
		upRef = vec.Vec3{Z: 1}
	}
	c.right = forward.Cross(upRef).Normalize()
	c.up = c.right.Cross(forward)

	return c
}

// ViewportHeightAtDepth returns the world-space height of the camera frustum
// slice at the calibrated depth. Derived lazily and re-derived when Depth or
// FOVDegrees have changed since the last call.
func (c *CalibrationState) ViewportHeightAtDepth() float64 {
	c.deriveViewport()
	return c.cachedHeight
}

// ViewportWidthAtDepth returns the world-space width of the camera frustum
// slice at the calibrated depth.
func (c *CalibrationState) ViewportWidthAtDepth() float64 {
	c.deriveViewport()
	return c.cachedWidth
}

func (c *CalibrationState) deriveViewport() {
	if c.cacheValid && c.cachedDepth == c.Depth && c.cachedFOV == c.FOVDegrees {
		return
	}
	fovRad := c.FOVDegrees * math.Pi / 180
	c.cachedHeight = 2 * c.Depth * math.Tan(fovRad/2)
	c.cachedWidth = c.cachedHeight * c.Aspect
	c.cachedDepth = c.Depth
	c.cachedFOV = c.FOVDegrees
	c.cacheValid = true
}

// Unproject maps a viewport point (x, y in [0,1], origin bottom-left) through
// the camera frustum into world space at the calibrated depth.
func (c *CalibrationState) Unproject(viewportX, viewportY float64) vec.Vec3 {
	return c.UnprojectAtDepth(viewportX, viewportY, c.Depth)
}

// UnprojectAtDepth maps a viewport point into world space at an explicit
// depth, for callers that adjust depth per landmark.
func (c *CalibrationState) UnprojectAtDepth(viewportX, viewportY, depth float64) vec.Vec3 {
	fovRad := c.FOVDegrees * math.Pi / 180
	height := 2 * depth * math.Tan(fovRad/2)
	width := height * c.Aspect

	center := c.CameraPosition.Add(c.CameraForward.Scale(depth))
	dx := (viewportX - 0.5) * width
	dy := (viewportY - 0.5) * height
	return center.Add(c.right.Scale(dx)).Add(c.up.Scale(dy))
}
