package app

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchfall/internal/capture"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/store"
)

const (
	viewWidth  = 1280
	viewHeight = 960
)

func newTestApp(t *testing.T, cfg Config) (*App, *detector.MockDetector) {
	t.Helper()
	cfg.Game = config.Default()
	cfg.Width, cfg.Height = viewWidth, viewHeight
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mock := detector.NewMockDetector()
	a.SetDetector(mock)
	return a, mock
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := Config{Game: config.Default()}
	cfg.Game.Columns = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("New() with zero columns succeeded")
	}
}

func TestApp_StepGrabsActivePiece(t *testing.T) {
	a, mock := newTestApp(t, Config{Seed: 3})

	var seen []event.Kind
	a.OnEvent(func(ev event.Event) { seen = append(seen, ev.Kind) })

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	active, err := a.Step(&frame, 0)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if active {
		t.Error("first still frame without hands reported active")
	}

	snap := a.Snapshot()
	if snap.Active == nil {
		t.Fatal("no active piece after first step")
	}

	// Pinch on the centre of the active piece with the provider's right hand,
	// which drives the left record.
	size := float64(len(snap.Active.Shape[0])) * snap.Layout.CellSize
	rows := float64(len(snap.Active.Shape)) * snap.Layout.CellSize
	cx := snap.Active.Screen.X + size/2
	cy := snap.Active.Screen.Y + rows/2
	mock.SetHands([]detector.HandLandmarks{
		detector.PinchLandmarks(1-cx/viewWidth, cy/viewHeight, "Right"),
	})
	a.gate.Reset()

	active, err = a.Step(&frame, 16)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !active {
		t.Error("frame with a hand reported inactive")
	}

	snap = a.Snapshot()
	if !snap.Active.Grabbed {
		t.Error("active piece not grabbed")
	}
	if snap.Hands[0].State != "grabbing" {
		t.Errorf("left hand state = %s, want grabbing", snap.Hands[0].State)
	}
	if snap.Hands[1].Present {
		t.Error("right hand present, want absent")
	}

	last, ok := a.LastEvent()
	if !ok || last.Kind != event.Grab || last.Hand != "left" {
		t.Errorf("LastEvent() = %+v, want left grab", last)
	}
	if want := []event.Kind{event.Spawn, event.Grab}; !reflect.DeepEqual(seen, want) {
		t.Errorf("listener saw %v, want %v", seen, want)
	}
}

type capturePublisher struct {
	snaps  []engine.Snapshot
	events int
}

func (p *capturePublisher) Publish(snap engine.Snapshot, events []event.Event) error {
	p.snaps = append(p.snaps, snap)
	p.events += len(events)
	return nil
}

func TestApp_Publish(t *testing.T) {
	a, _ := newTestApp(t, Config{Seed: 1})
	pub := &capturePublisher{}
	a.SetPublisher(pub)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	for i := 0; i < 3; i++ {
		a.Step(&frame, int64(i)*33)
	}

	if len(pub.snaps) != 3 {
		t.Fatalf("published %d snapshots, want 3", len(pub.snaps))
	}
	if pub.snaps[2].Time != 66 {
		t.Errorf("last snapshot time = %d, want 66", pub.snaps[2].Time)
	}
	if pub.events != 1 {
		t.Errorf("published %d events, want 1 spawn", pub.events)
	}
}

func TestApp_EnableRestart(t *testing.T) {
	a, _ := newTestApp(t, Config{Seed: 1})

	if !a.IsEnabled() {
		t.Error("IsEnabled() = false on a new app, want true")
	}
	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("IsEnabled() = true after SetEnabled(false)")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	a.Step(&frame, 0)
	first := a.Snapshot().Active.Type

	a.Restart()
	a.Step(&frame, 100)
	if got := a.Snapshot().Active.Type; got != first {
		t.Errorf("first piece after restart = %s, want %s", got, first)
	}
}

func TestApp_RecordAndReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, mock := newTestApp(t, Config{Store: s, Seed: 99, Record: true})
	mock.SetHands([]detector.HandLandmarks{detector.OpenHandLandmarks(0.5, 0.5, "Left")})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	a.SetCamera(cam)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	id, ok := a.Recording()
	if !ok {
		t.Fatal("Recording() = false after Start with Record")
	}

	deadline := time.Now().Add(5 * time.Second)
	for cam.Reads() < 8 {
		if time.Now().After(deadline) {
			a.Stop()
			t.Fatalf("only %d frames read", cam.Reads())
		}
		time.Sleep(10 * time.Millisecond)
	}
	a.Stop()

	if _, ok := a.LatestJPEG(); !ok {
		t.Error("LatestJPEG() = false after frames were processed")
	}

	rec, err := s.Recordings().GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.FrameCount != cam.Reads() {
		t.Errorf("FrameCount = %d, want %d", rec.FrameCount, cam.Reads())
	}

	replayed, _, err := engine.Replay(config.Default(), rec.Seed, loadFrames(t, s, id))
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got, want := replayed.Snapshot(), a.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("replayed snapshot differs from the live one\n got: %+v\nwant: %+v", got, want)
	}
}

func loadFrames(t *testing.T, s *store.Store, id string) []engine.Frame {
	t.Helper()
	stored, err := s.Recordings().Frames(id)
	if err != nil {
		t.Fatalf("Frames() error = %v", err)
	}
	frames := make([]engine.Frame, len(stored))
	for i, f := range stored {
		frames[i].Time = f.TimestampMs
		if err := json.Unmarshal(f.Data, &frames[i].Input); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	return frames
}

func TestApp_RestartWhileRecording(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	a, _ := newTestApp(t, Config{Store: s, Seed: 42, Record: true})
	first, err := NewRecorder(s, 42, viewWidth, viewHeight)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	a.recorder = first

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// 40 idle frames 100ms apart, restarting halfway so gravity has moved the
	// first game's piece before the second game begins.
	const frames, restartAt = 40, 20
	for i := 0; i < frames; i++ {
		if i == restartAt {
			a.Restart()
		}
		if _, err := a.Step(&frame, int64(i)*100); err != nil {
			t.Fatalf("Step(%d) error = %v", i, err)
		}
	}

	id, ok := a.Recording()
	if !ok {
		t.Fatal("Recording() = false after Restart")
	}
	if id == first.ID() {
		t.Fatal("Restart kept the recording that spans both games")
	}
	if err := a.recorder.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	old, err := s.Recordings().GetByID(first.ID())
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if old.FrameCount != restartAt {
		t.Errorf("first recording FrameCount = %d, want %d", old.FrameCount, restartAt)
	}

	recorded := loadFrames(t, s, id)
	if len(recorded) != frames-restartAt {
		t.Fatalf("second recording has %d frames, want %d", len(recorded), frames-restartAt)
	}
	if recorded[0].Time != restartAt*100 {
		t.Errorf("second recording starts at %d, want %d", recorded[0].Time, restartAt*100)
	}

	replayed, _, err := engine.Replay(config.Default(), 42, recorded)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got, want := replayed.Snapshot(), a.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("replayed snapshot differs from the live one\n got: %+v\nwant: %+v", got, want)
	}
}

func TestRecorder_Batches(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	r, err := NewRecorder(s, 5, viewWidth, viewHeight)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	in := engine.Input{Width: viewWidth, Height: viewHeight}
	for i := 0; i < RecordBatchSize+5; i++ {
		if err := r.Add(int64(i), in); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if r.Frames() != RecordBatchSize {
		t.Errorf("Frames() before flush = %d, want %d", r.Frames(), RecordBatchSize)
	}

	if err := r.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	frames, err := s.Recordings().Frames(r.ID())
	if err != nil {
		t.Fatalf("Frames() error = %v", err)
	}
	if len(frames) != RecordBatchSize+5 {
		t.Errorf("stored %d frames, want %d", len(frames), RecordBatchSize+5)
	}
	if frames[len(frames)-1].TimestampMs != RecordBatchSize+4 {
		t.Errorf("last timestamp = %d, want %d", frames[len(frames)-1].TimestampMs, RecordBatchSize+4)
	}
}
