package tracking

import (
	"testing"

	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/vec"
)

func testMapper() *Mapper {
	ref := vec.Vec3{Z: -2}
	cal := Calibrate(vec.Vec3{}, vec.Vec3{Z: -1}, 60, 16.0/9.0, &ref)
	return NewMapper(cal)
}

func TestIsValid_EitherChannelSuffices(t *testing.T) {
	m := testMapper()

	cases := []struct {
		name       string
		presence   float64
		visibility float64
		threshold  float64
		want       bool
	}{
		{"presence high, visibility low", 0.8, 0.1, 0.3, true},
		{"visibility high, presence low", 0.1, 0.8, 0.3, true},
		{"both low", 0.1, 0.1, 0.3, false},
		{"both at threshold", 0.3, 0.3, 0.3, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lm := detector.Landmark{Presence: tc.presence, Visibility: tc.visibility}
			if got := m.IsValid(lm, tc.threshold); got != tc.want {
				t.Errorf("IsValid(presence=%.1f, visibility=%.1f, threshold=%.1f) = %v, want %v",
					tc.presence, tc.visibility, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestToWorld_VerticalFlip(t *testing.T) {
	m := testMapper()

	// Detector origin is top-left, so a landmark near the image top must map
	// above one near the image bottom.
	top := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.1}, false)
	bottom := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.9}, false)

	if top.Y <= bottom.Y {
		t.Errorf("top landmark mapped below bottom landmark: top.Y = %f, bottom.Y = %f", top.Y, bottom.Y)
	}
}

func TestToWorld_MirrorInvolution(t *testing.T) {
	m := testMapper()

	// Mirroring is a pure coordinate transform: mapping landmark x mirrored
	// equals mapping the pre-flipped landmark (1−x) unmirrored.
	lm := detector.Landmark{X: 0.3, Y: 0.4}
	flipped := detector.Landmark{X: 1 - lm.X, Y: lm.Y}

	mirrored := m.ToWorld(lm, true)
	unmirrored := m.ToWorld(flipped, false)

	if mirrored.Distance(unmirrored) > 1e-9 {
		t.Errorf("mirrored mapping %+v != pre-flipped unmirrored mapping %+v", mirrored, unmirrored)
	}
}

func TestToWorld_DepthScale(t *testing.T) {
	ref := vec.Vec3{Z: -2}
	cal := Calibrate(vec.Vec3{}, vec.Vec3{Z: -1}, 60, 16.0/9.0, &ref)
	m := NewMapperWithDepth(cal, 0, 1.0)

	// A landmark with negative z sits closer to the camera than the
	// calibrated plane; forward is -Z, so closer means larger world Z.
	onPlane := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.5}, false)
	closer := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.5, Z: -0.5}, false)

	if closer.Z <= onPlane.Z {
		t.Errorf("negative landmark z did not move toward camera: closer.Z = %f, plane.Z = %f", closer.Z, onPlane.Z)
	}
	if diff := (onPlane.Z - closer.Z) + 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("depth adjustment = %f, want 0.5 at depthScale 1", closer.Z-onPlane.Z)
	}
}

func TestToWorld_DegradedUsesBaseDepth(t *testing.T) {
	cal := Calibrate(vec.Vec3{}, vec.Vec3{Z: -1}, 60, 1.0, nil)
	m := NewMapperWithDepth(cal, 3.0, 0)

	pos := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.5}, false)
	if diff := pos.Z + 3.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("degraded projection Z = %f, want -3 (configured base depth)", pos.Z)
	}
}

func TestToWorld_RecenterCompression(t *testing.T) {
	m := testMapper()

	center := m.ToWorld(detector.Landmark{X: 0.5, Y: 0.5}, false)
	edge := m.ToWorld(detector.Landmark{X: 1.0, Y: 0.5}, false)
	width := m.Calibration().ViewportWidthAtDepth()

	// The edge landmark is pulled 10% inward: offset = 0.5 · 0.90 · width.
	wantOffset := 0.5 * RecenterCompression * width
	gotOffset := edge.Distance(center)
	if diff := gotOffset - wantOffset; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("edge offset = %f, want %f", gotOffset, wantOffset)
	}
}
