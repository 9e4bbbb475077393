// Package detector provides body pose detection interfaces and types for
// the hand-strike tracking pipeline.
package detector

// Pose landmark indices following the MediaPipe convention (33 points).
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is one detected body keypoint in normalized image space.
// X and Y are in [0,1] with the origin at the image top-left; Z is a
// detector-relative depth estimate. Presence and Visibility are two
// independent confidence channels reported by the detector.
// A Landmark is immutable once it is part of a Frame.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Presence   float64 `json:"presence"`
	Visibility float64 `json:"visibility"`
}

// Frame is a single detector output: an ordered list of pose landmarks plus
// the dimensions of the source image and the capture timestamp in
// milliseconds. Frames are handed downstream as-is and never mutated.
type Frame struct {
	Landmarks   []Landmark `json:"landmarks"`
	ImageWidth  int        `json:"image_width"`
	ImageHeight int        `json:"image_height"`
	Timestamp   int64      `json:"timestamp"`
}

// Has reports whether the frame contains the landmark at the given index.
func (f *Frame) Has(index int) bool {
	return f != nil && index >= 0 && index < len(f.Landmarks)
}
