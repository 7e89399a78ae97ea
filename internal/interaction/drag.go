package interaction

import (
	"math"

	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/geom"
)

// drag applies one DRAGGING frame. Free-dragged objects are aimed at the hand
// plus the grab offset and eased toward it; the in-grid active piece is steered
// in whole cells.
func (h *Hand) drag(w *World, other *Hand) {
	g := h.grab
	if g == nil || h.Target == nil {
		return
	}

	if !g.PlayZone {
		t := h.Target
		t.Target = followPoint(h.Pos, g)
		t.Screen = t.Screen.Lerp(t.Target, w.Config.Easing)
		return
	}

	if TwoHanded(h, other, w) {
		if h.Side == Left {
			h.moveStep(w, w.Config.MoveThresholdTwo)
		} else {
			h.rotateStep(w, w.Config.RotateRadiusTwo)
		}
		return
	}
	h.rotateStep(w, w.Config.RotateRadiusSingle)
	h.moveStep(w, w.Config.MoveThresholdSingle)
}

// Quadrant quantizes angle into one of four 90° sectors, counting from the +x
// axis toward +y (clockwise on screen).
func Quadrant(angle float64) int {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	q := int(a / (math.Pi / 2))
	return q % 4
}

// QuadrantStep returns the signed quarter-turn difference from prev to next,
// biased into [-2, 2].
func QuadrantStep(prev, next int) int {
	d := next - prev
	if d > 2 {
		d -= 4
	} else if d < -2 {
		d += 4
	}
	return d
}

// gesture measures the hand against the active piece's grid center.
func (h *Hand) gesture(w *World, radius float64) Circle {
	center := w.Layout.GridCenter(h.Target)
	d := h.Pos.Sub(center)
	r := d.Len()
	return Circle{
		Center: center,
		Radius: r,
		Angle:  math.Atan2(d.Y, d.X),
		Armed:  r >= radius,
	}
}

// initQuadrant records the hand's starting sector so the first rotation needs an
// actual sector change.
func (h *Hand) initQuadrant(w *World, other *Hand) {
	g := h.grab
	if !g.PlayZone {
		return
	}
	radius := w.Config.RotateRadiusSingle
	if TwoHanded(h, other, w) {
		radius = w.Config.RotateRadiusTwo
	}
	g.Gesture = h.gesture(w, radius)
	if g.Gesture.Armed {
		g.Quadrant = Quadrant(g.Gesture.Angle)
		g.HasQuadrant = true
	}
}

// rotateStep turns the active piece when the hand has moved into another sector
// around it and the rotation cooldown has passed. Clockwise steps rotate once,
// counter-clockwise steps rotate three times.
func (h *Hand) rotateStep(w *World, radius float64) {
	g := h.grab
	g.Gesture = h.gesture(w, radius)
	if !g.Gesture.Armed {
		return
	}

	q := Quadrant(g.Gesture.Angle)
	if !g.HasQuadrant {
		g.Quadrant = q
		g.HasQuadrant = true
		return
	}
	if q == g.Quadrant || w.Now-h.LastRotate < w.Config.RotateCooldownMs {
		return
	}

	step := QuadrantStep(g.Quadrant, q)
	turns := 1
	if step < 0 {
		turns = 3
	}
	applied := 0
	for i := 0; i < turns; i++ {
		if w.Board.Rotate(h.Target) {
			applied++
		}
	}
	g.Quadrant = q
	h.LastRotate = w.Now

	if applied > 0 {
		w.emit(event.Event{Kind: event.Rotate, Hand: h.Side.String(), Piece: h.Target.Type.String(), Slot: -1, Value: step})
	}
}

// moveStep shifts the active piece one column once the hand has travelled the
// threshold from its anchor and the move cooldown has passed. The anchor then
// follows the hand.
func (h *Hand) moveStep(w *World, threshold float64) {
	g := h.grab
	dx := h.Pos.X - g.AnchorX
	if math.Abs(dx) < threshold || w.Now-h.LastMove < w.Config.MoveCooldownMs {
		return
	}
	dir := 1
	if dx < 0 {
		dir = -1
	}
	moved := w.Board.Move(dir, 0)
	g.AnchorX = h.Pos.X
	h.LastMove = w.Now

	if moved {
		w.emit(event.Event{Kind: event.Move, Hand: h.Side.String(), Piece: h.Target.Type.String(), Slot: -1, Value: dir})
	}
}

// followPoint is where a free-dragged object is drawn for a hand at pos.
func followPoint(pos geom.Vec2, g *Grab) geom.Vec2 {
	return pos.Add(g.Offset)
}
