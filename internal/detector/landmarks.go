// Package detector provides the hand-pose input boundary: MediaPipe landmark
// types, detector implementations and the reduction of a full landmark set to the
// few values the game consumes.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2D is a landmark projected onto the image plane, normalized to [0,1].
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// HandSample is the per-frame reduction of one hand that the game consumes.
type HandSample struct {
	Wrist    Point2D `json:"wrist"`
	Knuckle  Point2D `json:"knuckle"`
	ThumbTip Point2D `json:"thumb_tip"`
	IndexTip Point2D `json:"index_tip"`

	// Pinch is the thumb-tip to index-tip distance in normalized image units.
	Pinch float64 `json:"pinch"`
}

func flat(p Point3D) Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

func distance2D(a, b Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PinchDistance returns the image-plane distance between thumb and index tips.
func (h *HandLandmarks) PinchDistance() float64 {
	return distance2D(flat(h.Points[ThumbTip]), flat(h.Points[IndexTip]))
}

// Sample reduces the landmark set to a HandSample.
func (h *HandLandmarks) Sample() HandSample {
	return HandSample{
		Wrist:    flat(h.Points[Wrist]),
		Knuckle:  flat(h.Points[MiddleMCP]),
		ThumbTip: flat(h.Points[ThumbTip]),
		IndexTip: flat(h.Points[IndexTip]),
		Pinch:    h.PinchDistance(),
	}
}

// PinchPoint returns the midpoint of the thumb and index tips.
func (s HandSample) PinchPoint() Point2D {
	return Point2D{
		X: (s.ThumbTip.X + s.IndexTip.X) / 2,
		Y: (s.ThumbTip.Y + s.IndexTip.Y) / 2,
	}
}

// WristAngle returns the angle in radians of the wrist-to-knuckle vector in the
// mirrored view.
func (s HandSample) WristAngle() float64 {
	return math.Atan2(s.Knuckle.Y-s.Wrist.Y, -(s.Knuckle.X - s.Wrist.X))
}

// Route assigns detected hands to the game's left and right hand records. The
// camera view is mirrored, so the provider's "Right" drives the left record.
// When several hands carry the same label the highest score wins.
func Route(hands []HandLandmarks) (left, right *HandSample) {
	var leftScore, rightScore float64
	for i := range hands {
		h := &hands[i]
		s := h.Sample()
		switch h.Handedness {
		case "Right":
			if left == nil || h.Score > leftScore {
				left, leftScore = &s, h.Score
			}
		case "Left":
			if right == nil || h.Score > rightScore {
				right, rightScore = &s, h.Score
			}
		}
	}
	return left, right
}
