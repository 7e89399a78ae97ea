package capture

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/pinchfall/internal/detector"
)

// DetectFunc runs hand detection on one frame.
type DetectFunc func(frame *gocv.Mat) ([]detector.HandLandmarks, error)

// Gate skips hand detection on still frames by reusing the previous result. A
// fresh detection is forced at least every maxReuse frames so a hand that left
// the picture without moving anything else is eventually dropped.
type Gate struct {
	motion   *MotionDetector
	maxReuse int
	reused   int
	last     []detector.HandLandmarks
	primed   bool
}

// NewGate wraps motion. maxReuse <= 0 disables reuse entirely.
func NewGate(motion *MotionDetector, maxReuse int) *Gate {
	return &Gate{motion: motion, maxReuse: maxReuse}
}

// Hands returns the hands for frame and whether motion was seen. detect is only
// called when the frame moved, nothing was detected yet, or the reuse budget ran
// out. A failed detection keeps the previous hands.
func (g *Gate) Hands(frame *gocv.Mat, detect DetectFunc) ([]detector.HandLandmarks, bool, error) {
	moved, _ := g.motion.Detect(frame)

	if g.primed && !moved && g.reused < g.maxReuse {
		g.reused++
		return g.last, false, nil
	}

	hands, err := detect(frame)
	if err != nil {
		return g.last, moved, err
	}
	g.last = hands
	g.primed = true
	g.reused = 0
	return hands, moved, nil
}

// Reset forgets the cached hands and the motion baseline.
func (g *Gate) Reset() {
	g.last = nil
	g.primed = false
	g.reused = 0
	g.motion.Reset()
}
