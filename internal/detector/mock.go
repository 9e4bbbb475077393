package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frame *Frame
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets the frame that will be returned by Detect.
func (m *MockDetector) SetFrame(frame *Frame) {
	m.frame = frame
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.frame, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// NeutralPoseFrame returns a preset Frame representing a person standing
// upright facing the camera, arms at their sides, with all landmarks at
// high confidence. Tests mutate individual landmarks from this baseline.
func NeutralPoseFrame() *Frame {
	f := &Frame{
		Landmarks:   make([]Landmark, NumLandmarks),
		ImageWidth:  640,
		ImageHeight: 480,
	}

	at := func(index int, x, y float64) {
		f.Landmarks[index] = Landmark{X: x, Y: y, Presence: 0.95, Visibility: 0.95}
	}

	// Head
	at(Nose, 0.50, 0.12)
	at(LeftEyeInner, 0.52, 0.10)
	at(LeftEye, 0.53, 0.10)
	at(LeftEyeOuter, 0.54, 0.10)
	at(RightEyeInner, 0.48, 0.10)
	at(RightEye, 0.47, 0.10)
	at(RightEyeOuter, 0.46, 0.10)
	at(LeftEar, 0.56, 0.11)
	at(RightEar, 0.44, 0.11)
	at(MouthLeft, 0.52, 0.15)
	at(MouthRight, 0.48, 0.15)

	// Torso and arms. Detector "left" is the subject's anatomical left,
	// which appears on the right side of an unmirrored image.
	at(LeftShoulder, 0.62, 0.25)
	at(RightShoulder, 0.38, 0.25)
	at(LeftElbow, 0.66, 0.40)
	at(RightElbow, 0.34, 0.40)
	at(LeftWrist, 0.68, 0.55)
	at(RightWrist, 0.32, 0.55)
	at(LeftPinky, 0.69, 0.58)
	at(RightPinky, 0.31, 0.58)
	at(LeftIndex, 0.70, 0.58)
	at(RightIndex, 0.30, 0.58)
	at(LeftThumb, 0.69, 0.57)
	at(RightThumb, 0.31, 0.57)

	// Lower body
	at(LeftHip, 0.58, 0.55)
	at(RightHip, 0.42, 0.55)
	at(LeftKnee, 0.57, 0.75)
	at(RightKnee, 0.43, 0.75)
	at(LeftAnkle, 0.57, 0.92)
	at(RightAnkle, 0.43, 0.92)
	at(LeftHeel, 0.57, 0.95)
	at(RightHeel, 0.43, 0.95)
	at(LeftFootIndex, 0.58, 0.97)
	at(RightFootIndex, 0.42, 0.97)

	return f
}
