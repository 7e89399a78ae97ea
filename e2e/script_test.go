package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/engine"
)

// scriptDir holds scripted hand-input sessions. A script is a list of poses in
// screen pixels, each held for a number of frames, and expands into the engine
// frames a real detector would have produced.
var scriptDir = filepath.Join("..", "testdata", "scripts")

// Pose places one hand record on screen.
type Pose struct {
	Side  string  `json:"side"` // "left" or "right" game record
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Pinch bool    `json:"pinch"`
}

// Step holds a set of poses for a number of frames. No poses means no hands.
type Step struct {
	Hands  []Pose `json:"hands"`
	Frames int    `json:"frames"`
}

// Script is one scripted session.
type Script struct {
	Name       string  `json:"name"`
	Seed       uint64  `json:"seed"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	IntervalMs int64   `json:"interval_ms"`
	Steps      []Step  `json:"steps"`
}

// LoadScript loads testdata/scripts/<name>.json.
func LoadScript(name string) (*Script, error) {
	data, err := os.ReadFile(filepath.Join(scriptDir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", name, err)
	}
	if s.IntervalMs <= 0 {
		return nil, fmt.Errorf("script %s: interval_ms must be positive", name)
	}
	return &s, nil
}

// Frames expands the script into timestamped engine input.
func (s *Script) Frames() []engine.Frame {
	var frames []engine.Frame
	var now int64
	for _, st := range s.Steps {
		in := s.input(st.Hands)
		for i := 0; i < st.Frames; i++ {
			frames = append(frames, engine.Frame{Time: now, Input: in})
			now += s.IntervalMs
		}
	}
	return frames
}

// input builds the landmarks a detector would report for poses and routes
// them the way the live pipeline does.
func (s *Script) input(poses []Pose) engine.Input {
	hands := make([]detector.HandLandmarks, 0, len(poses))
	for _, p := range poses {
		// The camera view is mirrored: the game's left record is the
		// provider's "Right" hand.
		handedness := "Left"
		if p.Side == "left" {
			handedness = "Right"
		}
		x, y := 1-p.X/s.Width, p.Y/s.Height
		if p.Pinch {
			hands = append(hands, detector.PinchLandmarks(x, y, handedness))
		} else {
			hands = append(hands, detector.OpenHandLandmarks(x, y, handedness))
		}
	}
	left, right := detector.Route(hands)
	return engine.Input{Left: left, Right: right, Width: s.Width, Height: s.Height}
}
