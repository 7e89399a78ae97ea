package interaction

import (
	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/signal"
)

// Update advances h by one frame. sample is nil when the hand was not detected;
// other is the opposite hand's record as it stands at this point of the frame.
func (h *Hand) Update(w *World, sample *detector.HandSample, other *Hand) {
	if sample == nil {
		if h.Present {
			w.emit(event.Event{Kind: event.HandLost, Hand: h.Side.String(), Slot: -1})
		}
		h.Reset()
		return
	}

	c := h.smoother.Condition(*sample, w.Layout.Width, w.Layout.Height, h.State == Dragging)
	h.Pos = c.Pos
	h.Pinch = c.Pinch
	h.WristAngle = c.WristAngle
	h.Present = true

	if h.Target != nil && !w.Interactable(h.Target) {
		h.release()
		return
	}

	pinch := signal.Hysteresis{Grab: w.Config.GrabThreshold, Release: w.Config.ReleaseThreshold}

	switch h.State {
	case Idle, Targeting:
		h.Target = w.Nearest(h.Pos, other)
		if h.Target == nil {
			h.State = Idle
			return
		}
		h.State = Targeting
		if pinch.ShouldGrab(h.Pinch) {
			h.beginGrab(w, other)
		}

	case Grabbing, Dragging:
		if pinch.ShouldRelease(h.Pinch) {
			h.finishGrab(w)
			return
		}
		h.State = Dragging
		h.drag(w, other)
	}
}

func (h *Hand) beginGrab(w *World, other *Hand) {
	t := h.Target
	g := &Grab{
		Offset:   t.Screen.Sub(h.Pos),
		PlayZone: w.inPlayZone(t),
		AnchorX:  h.Pos.X,
	}
	if !g.PlayZone {
		t.Grabbed = true
		t.Target = t.Screen
	}
	h.grab = g
	h.State = Grabbing
	h.initQuadrant(w, other)

	w.emit(event.Event{Kind: event.Grab, Hand: h.Side.String(), Piece: t.Type.String(), Slot: w.Hold.SlotOfTop(t)})
}

// finishGrab releases the pinch. Free-dragged objects resolve against the hold
// slots and the spawn zone first; in-grid grabs simply let go.
func (h *Hand) finishGrab(w *World) {
	t := h.Target
	if h.grab != nil && !h.grab.PlayZone {
		resolveDrop(w, t, h.Pos)
	}
	w.emit(event.Event{Kind: event.Release, Hand: h.Side.String(), Piece: t.Type.String(), Slot: -1})
	h.release()
}
