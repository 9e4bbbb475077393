package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Activity gate constants.
const (
	// blurKernelSize is the Gaussian blur kernel size used to suppress
	// sensor noise before differencing.
	blurKernelSize = 21
	// pixelDiffThreshold is the per-pixel intensity delta that counts a
	// pixel as changed.
	pixelDiffThreshold = 25
)

// ActivityGate decides whether a captured frame is worth running pose
// inference on, by frame differencing against the previous frame. Pose
// detection is the expensive step of the producer loop; a still scene
// yields the same landmarks anyway.
type ActivityGate struct {
	threshold float64
	prevGray  gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewActivityGate creates a gate that reports activity when more than
// threshold percent of pixels changed between frames. A threshold of 1.0
// means 1% of pixels.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Check compares the frame against the previous one and reports whether the
// scene is active, along with the percentage of pixels that changed. The
// first frame primes the baseline and always reports inactive.
func (g *ActivityGate) Check(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prevGray)
		g.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, pixelDiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()
	changePercent := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Reset clears the baseline so the next frame primes the gate again.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.primed = false
}

// Close releases the gate's resources.
func (g *ActivityGate) Close() {
	g.Reset()
}

// SetThreshold updates the change threshold. Values less than or equal to 0
// are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
