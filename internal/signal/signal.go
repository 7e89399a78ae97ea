// Package signal conditions raw hand samples: it projects them into mirrored
// viewport pixels, low-pass filters the position and turns the analog pinch
// distance into a debounced held/released state.
package signal

import (
	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/geom"
)

// Hysteresis holds the two pinch thresholds. Grab must be below Release; the
// gap between them is the band in which the current state is kept.
type Hysteresis struct {
	Grab    float64
	Release float64
}

// Next returns the pinch state after observing distance d, given whether the
// pinch was held before.
func (h Hysteresis) Next(held bool, d float64) bool {
	if held {
		return d <= h.Release
	}
	return d < h.Grab
}

// ShouldGrab reports whether an open hand closes enough to grab.
func (h Hysteresis) ShouldGrab(d float64) bool { return h.Next(false, d) }

// ShouldRelease reports whether a held pinch opens enough to release.
func (h Hysteresis) ShouldRelease(d float64) bool { return !h.Next(true, d) }

// ToScreen maps a normalized camera point into viewport pixels, mirroring the x
// axis so the view behaves like a mirror.
func ToScreen(p detector.Point2D, width, height float64) geom.Vec2 {
	return geom.Vec2{X: (1 - p.X) * width, Y: p.Y * height}
}

// Conditioned is one hand's filtered state for a frame.
type Conditioned struct {
	Raw        geom.Vec2
	Pos        geom.Vec2
	Pinch      float64
	WristAngle float64
}

// Smoother is a per-hand exponential filter whose gain depends on whether the
// hand is dragging something.
type Smoother struct {
	idle   float64
	drag   float64
	pos    geom.Vec2
	primed bool
}

// NewSmoother creates a filter with the given idle and dragging gains.
func NewSmoother(idle, drag float64) *Smoother {
	return &Smoother{idle: idle, drag: drag}
}

// Reset forgets the filtered position; the next sample is taken verbatim.
func (s *Smoother) Reset() {
	s.pos = geom.Vec2{}
	s.primed = false
}

// Pos returns the current filtered position.
func (s *Smoother) Pos() geom.Vec2 { return s.pos }

// Step folds raw into the filter and returns the new position.
func (s *Smoother) Step(raw geom.Vec2, dragging bool) geom.Vec2 {
	if !s.primed {
		s.pos = raw
		s.primed = true
		return s.pos
	}
	factor := s.idle
	if dragging {
		factor = s.drag
	}
	s.pos = s.pos.Add(raw.Sub(s.pos).Scale(factor))
	return s.pos
}

// Condition projects sample into the viewport and filters its position. The
// pinch distance passes through untouched.
func (s *Smoother) Condition(sample detector.HandSample, width, height float64, dragging bool) Conditioned {
	raw := ToScreen(sample.PinchPoint(), width, height)
	return Conditioned{
		Raw:        raw,
		Pos:        s.Step(raw, dragging),
		Pinch:      sample.Pinch,
		WristAngle: sample.WristAngle(),
	}
}
