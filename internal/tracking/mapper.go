package tracking

import (
	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/vec"
)

// RecenterCompression pulls mapped X coordinates 10% toward the viewport
// center. It corrects a systematic outward bias observed in detector X
// estimates near the image edges; an empirically tuned constant, not derived
// physics.
const RecenterCompression = 0.90

// Mapper converts normalized landmarks to world positions through an
// explicit CalibrationState. Mapper itself is stateless.
//
// baseDepth replaces the calibrated depth when calibration ran degraded;
// depthScale converts the landmark's normalized z into a world-space depth
// adjustment relative to that plane.
type Mapper struct {
	cal        *CalibrationState
	baseDepth  float64
	depthScale float64
}

// NewMapper creates a Mapper over the given calibration with no per-landmark
// depth adjustment.
func NewMapper(cal *CalibrationState) *Mapper {
	return &Mapper{cal: cal, baseDepth: cal.Depth}
}

// NewMapperWithDepth creates a Mapper using baseDepth as the projection plane
// when calibration is degraded, and depthScale to push landmarks along the
// camera axis by their normalized z.
func NewMapperWithDepth(cal *CalibrationState, baseDepth, depthScale float64) *Mapper {
	if baseDepth <= 0 {
		baseDepth = cal.Depth
	}
	return &Mapper{cal: cal, baseDepth: baseDepth, depthScale: depthScale}
}

// Calibration returns the calibration the mapper projects through.
func (m *Mapper) Calibration() *CalibrationState {
	return m.cal
}

// IsValid reports whether a landmark is confident enough to use. Either
// confidence channel clearing the threshold is sufficient: detectors can
// report inconsistent scores between presence and visibility, and requiring
// both produces false negatives.
func (m *Mapper) IsValid(lm detector.Landmark, threshold float64) bool {
	return lm.Presence >= threshold || lm.Visibility >= threshold
}

// ToWorld converts a normalized landmark to a world position at the
// calibrated depth. Callers must gate on IsValid first; the result for an
// invalid landmark is unspecified.
func (m *Mapper) ToWorld(lm detector.Landmark, mirrored bool) vec.Vec3 {
	// Detector origin is top-left; the viewport origin is bottom-left.
	viewportY := 1 - lm.Y

	x := lm.X
	if mirrored {
		x = 1 - x
	}
	centered := (x - 0.5) * RecenterCompression
	viewportX := centered + 0.5

	depth := m.cal.Depth
	if m.cal.Degraded {
		depth = m.baseDepth
	}
	depth += lm.Z * m.depthScale
	if depth < 0.1 {
		depth = 0.1
	}

	return m.cal.UnprojectAtDepth(viewportX, viewportY, depth)
}
