package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchfall/internal/detector"
)

type countingDetector struct {
	calls int
	hands []detector.HandLandmarks
	err   error
}

func (c *countingDetector) detect(*gocv.Mat) ([]detector.HandLandmarks, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.hands, nil
}

func TestGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := solid(0)
	defer black.Close()
	white := solid(255)
	defer white.Close()

	md := NewMotionDetector(1.0)
	defer md.Close()
	gate := NewGate(md, 2)
	det := &countingDetector{hands: []detector.HandLandmarks{detector.PinchLandmarks(0.5, 0.5, "Right")}}

	t.Run("first frame always detects", func(t *testing.T) {
		hands, _, err := gate.Hands(&black, det.detect)
		if err != nil || len(hands) != 1 || det.calls != 1 {
			t.Fatalf("got %d hands, %d calls, err %v", len(hands), det.calls, err)
		}
	})

	t.Run("still frames reuse until the budget runs out", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			hands, moved, _ := gate.Hands(&black, det.detect)
			if moved || len(hands) != 1 {
				t.Fatalf("frame %d: moved=%v hands=%d", i, moved, len(hands))
			}
		}
		if det.calls != 1 {
			t.Errorf("calls = %d, want 1", det.calls)
		}

		gate.Hands(&black, det.detect)
		if det.calls != 2 {
			t.Errorf("calls = %d after budget, want 2", det.calls)
		}
	})

	t.Run("motion detects", func(t *testing.T) {
		_, moved, _ := gate.Hands(&white, det.detect)
		if !moved || det.calls != 3 {
			t.Errorf("moved=%v calls=%d, want true and 3", moved, det.calls)
		}
	})

	t.Run("failure keeps previous hands", func(t *testing.T) {
		det.err = errors.New("boom")
		hands, _, err := gate.Hands(&black, det.detect)
		if err == nil || len(hands) != 1 {
			t.Errorf("hands=%d err=%v, want previous hands and error", len(hands), err)
		}
	})
}
