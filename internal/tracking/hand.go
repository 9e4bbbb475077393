package tracking

import (
	"time"

	"github.com/ayusman/handstrike/internal/config"
	"github.com/ayusman/handstrike/internal/detector"
	"github.com/ayusman/handstrike/internal/vec"
)

// Hand identifies a physical hand of the tracked person.
type Hand string

const (
	RightHand Hand = "right"
	LeftHand  Hand = "left"
)

// HandState is the published tracking state for one hand. Position is the
// smoothed position; it persists across frames where Tracked turns false and
// is only cleared by ResetTracking.
type HandState struct {
	Hand         Hand
	RawPosition  vec.Vec3
	Position     vec.Vec3
	Velocity     vec.Vec3
	Acceleration vec.Vec3
	Speed        float64
	Tracked      bool

	// Secondary joints, mapped for direction derivation only.
	Elbow    vec.Vec3
	Shoulder vec.Vec3
}

// handJoints holds the detector landmark indices for one hand's arm chain.
type handJoints struct {
	wrist    int
	elbow    int
	shoulder int
}

// jointsFor resolves the landmark indices a physical hand reads. Under
// mirror mode the anatomical left/right index sets swap: the mirrored
// coordinate mapping flips screen side, so a physically-right hand reads the
// detector's "left" indices. The index swap and the coordinate mirror are
// two halves of one correction and are never applied independently.
func jointsFor(hand Hand, mirrored bool) handJoints {
	right := handJoints{wrist: detector.RightWrist, elbow: detector.RightElbow, shoulder: detector.RightShoulder}
	left := handJoints{wrist: detector.LeftWrist, elbow: detector.LeftElbow, shoulder: detector.LeftShoulder}

	if hand == RightHand != mirrored {
		return right
	}
	return left
}

type handTrack struct {
	state       HandState
	estimator   *Estimator
	hasSmoothed bool
}

// Tracker orchestrates per-hand tracking: index selection, confidence
// gating, coordinate mapping, smoothing, and velocity estimation. All
// methods must be called from the consumer tick context.
type Tracker struct {
	cfg    config.Config
	mapper *Mapper
	right  handTrack
	left   handTrack
}

// NewTracker creates a Tracker over the given mapper and configuration.
func NewTracker(cfg config.Config, mapper *Mapper) *Tracker {
	return &Tracker{
		cfg:    cfg,
		mapper: mapper,
		right: handTrack{
			state:     HandState{Hand: RightHand},
			estimator: NewEstimator(cfg.VelocitySampleSize),
		},
		left: handTrack{
			state:     HandState{Hand: LeftHand},
			estimator: NewEstimator(cfg.VelocitySampleSize),
		},
	}
}

// Update processes one landmark frame for both hands. A nil or empty frame
// is skipped entirely: prior tracked state is preserved unchanged.
func (t *Tracker) Update(frame *detector.Frame, now time.Time) {
	if frame == nil || len(frame.Landmarks) == 0 {
		return
	}
	t.updateHand(&t.right, t.cfg.TrackRightHand, frame, now)
	t.updateHand(&t.left, t.cfg.TrackLeftHand, frame, now)
}

func (t *Tracker) updateHand(h *handTrack, enabled bool, frame *detector.Frame, now time.Time) {
	if !enabled {
		h.state.Tracked = false
		return
	}

	joints := jointsFor(h.state.Hand, t.cfg.MirrorMode)
	if !frame.Has(joints.wrist) {
		h.state.Tracked = false
		return
	}

	wrist := frame.Landmarks[joints.wrist]
	if !t.mapper.IsValid(wrist, t.cfg.MinLandmarkVisibility) {
		// Low confidence: untracked this frame, state left untouched so the
		// next confident frame resumes from the prior smoothed position.
		h.state.Tracked = false
		return
	}

	raw := t.mapper.ToWorld(wrist, t.cfg.MirrorMode)
	h.state.RawPosition = raw

	if t.cfg.UseSmoothing && h.hasSmoothed {
		h.state.Position = vec.Lerp(h.state.Position, raw, t.cfg.SmoothingFactor)
	} else {
		h.state.Position = raw
		h.hasSmoothed = true
	}

	h.estimator.Update(h.state.Position, now)
	h.state.Velocity = h.estimator.Velocity()
	h.state.Acceleration = h.estimator.Acceleration()
	h.state.Speed = h.estimator.Speed()
	h.state.Tracked = true

	// Secondary joints are mapped when available but never velocity-tracked.
	if frame.Has(joints.elbow) {
		if lm := frame.Landmarks[joints.elbow]; t.mapper.IsValid(lm, t.cfg.MinLandmarkVisibility) {
			h.state.Elbow = t.mapper.ToWorld(lm, t.cfg.MirrorMode)
		}
	}
	if frame.Has(joints.shoulder) {
		if lm := frame.Landmarks[joints.shoulder]; t.mapper.IsValid(lm, t.cfg.MinLandmarkVisibility) {
			h.state.Shoulder = t.mapper.ToWorld(lm, t.cfg.MirrorMode)
		}
	}
}

// Right returns the current state of the physically-right hand.
func (t *Tracker) Right() HandState {
	return t.right.state
}

// Left returns the current state of the physically-left hand.
func (t *Tracker) Left() HandState {
	return t.left.state
}

// State returns the current state of the given hand.
func (t *Tracker) State(hand Hand) HandState {
	if hand == LeftHand {
		return t.left.state
	}
	return t.right.state
}

// ResetTracking resets both hands' velocity estimators and smoothed
// positions and clears the tracked flags.
func (t *Tracker) ResetTracking() {
	for _, h := range []*handTrack{&t.right, &t.left} {
		hand := h.state.Hand
		h.estimator.Reset()
		h.state = HandState{Hand: hand}
		h.hasSmoothed = false
	}
}
