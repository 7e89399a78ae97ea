package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantFPS int
	}{
		{name: "defaults", opts: DefaultOptions(), wantFPS: IdleFPS},
		{name: "explicit fps", opts: Options{Device: 1, Width: 320, Height: 240, FPS: 24}, wantFPS: 24},
		{name: "zero fps falls back", opts: Options{Device: 2}, wantFPS: IdleFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.opts)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open before Open()")
			}
			w, h := cam.Size()
			if w != tt.opts.Width || h != tt.opts.Height {
				t.Errorf("Size() = %dx%d, want requested %dx%d", w, h, tt.opts.Width, tt.opts.Height)
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	for _, tt := range []struct {
		fps  int
		want int
	}{
		{fps: ActiveFPS, want: ActiveFPS},
		{fps: 1, want: 1},
		{fps: 0, want: 1},
		{fps: -5, want: 1},
	} {
		cam.SetFPS(tt.fps)
		if got := cam.FPS(); got != tt.want {
			t.Errorf("SetFPS(%d): FPS() = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultOptions())

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultOptions())
	if err := cam.Open(); err != nil {
		t.Skipf("camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should be true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		w, h := cam.Size()
		if mat.Cols() != w || mat.Rows() != h {
			t.Logf("frame is %dx%d, device reports %dx%d", mat.Cols(), mat.Rows(), w, h)
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should be false after Close()")
	}
}
