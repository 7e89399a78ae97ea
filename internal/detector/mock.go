package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has run.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// handAt lays out a generic upright hand whose thumb and index tips sit either
// side of (x, y), gap apart, in normalized image coordinates.
func handAt(x, y, gap float64, handedness string) HandLandmarks {
	h := HandLandmarks{Handedness: handedness, Score: 0.95}

	h.Points[Wrist] = Point3D{X: x, Y: y + 0.25}
	h.Points[ThumbCMC] = Point3D{X: x + 0.05, Y: y + 0.20}
	h.Points[ThumbMCP] = Point3D{X: x + 0.06, Y: y + 0.14}
	h.Points[ThumbIP] = Point3D{X: x + 0.05, Y: y + 0.07}
	h.Points[ThumbTip] = Point3D{X: x + gap/2, Y: y}

	h.Points[IndexMCP] = Point3D{X: x - 0.01, Y: y + 0.13}
	h.Points[IndexPIP] = Point3D{X: x - 0.02, Y: y + 0.08}
	h.Points[IndexDIP] = Point3D{X: x - 0.02, Y: y + 0.04}
	h.Points[IndexTip] = Point3D{X: x - gap/2, Y: y}

	for i, dx := range []float64{-0.04, -0.07, -0.10} {
		base := MiddleMCP + i*4
		h.Points[base] = Point3D{X: x + dx, Y: y + 0.13}
		h.Points[base+1] = Point3D{X: x + dx, Y: y + 0.07}
		h.Points[base+2] = Point3D{X: x + dx, Y: y + 0.03}
		h.Points[base+3] = Point3D{X: x + dx, Y: y}
	}
	return h
}

// PinchLandmarks returns a hand pinching at (x, y): thumb and index tips nearly
// touching.
func PinchLandmarks(x, y float64, handedness string) HandLandmarks {
	return handAt(x, y, 0.02, handedness)
}

// OpenHandLandmarks returns a relaxed hand at (x, y) with thumb and index tips
// well apart.
func OpenHandLandmarks(x, y float64, handedness string) HandLandmarks {
	return handAt(x, y, 0.15, handedness)
}
