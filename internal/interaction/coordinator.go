package interaction

import (
	"github.com/ayusman/pinchfall/internal/board"
	"github.com/ayusman/pinchfall/internal/detector"
)

// TwoHanded reports whether a and b both hold the in-grid active piece. In that
// mode the left hand only moves the piece and the right hand only rotates it,
// each with the tighter two-hand thresholds.
func TwoHanded(a, b *Hand, w *World) bool {
	if a == nil || b == nil {
		return false
	}
	active := w.Board.Active
	if active == nil || !active.InPlay {
		return false
	}
	return steering(a, active) && steering(b, active)
}

func steering(h *Hand, p *board.Piece) bool {
	return h.State.Holding() && h.grab != nil && h.grab.PlayZone && h.Target == p
}

// Hands is the pair of per-hand records.
type Hands struct {
	Left  *Hand
	Right *Hand
}

// NewHands creates both records idle.
func NewHands(smoothIdle, smoothDrag float64) Hands {
	return Hands{
		Left:  NewHand(Left, smoothIdle, smoothDrag),
		Right: NewHand(Right, smoothIdle, smoothDrag),
	}
}

// Update runs the left machine, then the right one.
func (hs Hands) Update(w *World, left, right *detector.HandSample) {
	hs.Left.Update(w, left, hs.Right)
	hs.Right.Update(w, right, hs.Left)
}

// Reset returns both records to their defaults.
func (hs Hands) Reset() {
	hs.Left.Reset()
	hs.Right.Reset()
}

// Highlight flags the hold slot each free-dragging hand is hovering, using the
// same tolerance drop resolution applies.
func (hs Hands) Highlight(w *World) {
	w.Hold.ClearTargets()
	for _, h := range []*Hand{hs.Left, hs.Right} {
		if h.State != Dragging || !h.FreeDragging() {
			continue
		}
		if i := w.Hold.SlotAt(h.Pos, w.Config.HoldDropTolerance); i >= 0 {
			w.Hold.Slot(i).Targeted = true
		}
	}
}
