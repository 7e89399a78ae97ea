// Package app runs the game against a live camera: frames go through the
// motion gate and the hand detector into the engine, and every resulting
// snapshot is handed to a publisher.
package app

import (
	"fmt"
	"log"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/pinchfall/internal/capture"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/detector"
	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeoutMs is how long without motion or hands before dropping to IdleFPS.
	IdleTimeoutMs = 2000
	// MaxReuse is how many still frames may reuse the previous detection.
	MaxReuse = 5
)

// Publisher receives one snapshot per processed frame.
type Publisher interface {
	Publish(snap engine.Snapshot, events []event.Event) error
}

// Config holds configuration options for the application.
type Config struct {
	Game         config.Config
	Store        *store.Store
	Camera       capture.Options
	Seed         uint64
	Width        float64
	Height       float64
	Record       bool
	MotionThresh float64
}

// App owns the engine and drives it from the camera.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	gate      *capture.Gate
	detector  detector.Detector
	engine    *engine.Engine
	publisher Publisher
	recorder  *Recorder
	listeners []func(event.Event)
	last      *event.Event
	enabled   bool
	mu        sync.RWMutex
	engineMu  sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}

	frameMu sync.RWMutex
	jpeg    []byte
}

// New creates an App. The detector falls back to the mock when MediaPipe is not
// installed.
func New(config Config) (*App, error) {
	eng, err := engine.New(config.Game, config.Seed)
	if err != nil {
		return nil, err
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% of pixels changed
	}
	motion := capture.NewMotionDetector(motionThreshold)

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.Camera),
		motion:  motion,
		gate:    capture.NewGate(motion, MaxReuse),
		engine:  eng,
		enabled: true,
	}

	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

// SetEnabled pauses or resumes the game. While paused no frames are processed
// and the game clock stands still.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether the game is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the hand detector.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the frame source. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// SetPublisher installs the snapshot publisher.
func (a *App) SetPublisher(p Publisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publisher = p
}

// OnEvent registers fn to be called for every game event, on the pipeline
// goroutine.
func (a *App) OnEvent(fn func(event.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// LastEvent returns the most recent game event.
func (a *App) LastEvent() (event.Event, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return event.Event{}, false
	}
	return *a.last, true
}

// Restart starts a new game with the same seed. A running recording is closed
// and a fresh one started, so every recording replays from a new game.
func (a *App) Restart() {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.engine.Restart()

	a.mu.Lock()
	if a.recorder != nil {
		a.recorder = a.nextRecording(a.recorder)
	}
	a.mu.Unlock()

	log.Println("Game restarted")
}

// nextRecording flushes prev and opens its successor. It returns nil, ending
// recording, when the new one cannot be created.
func (a *App) nextRecording(prev *Recorder) *Recorder {
	if err := prev.Flush(); err != nil {
		log.Printf("Error saving recording: %v", err)
	} else {
		log.Printf("Recording %s saved (%d frames)", prev.ID(), prev.Frames())
	}
	rec, err := NewRecorder(a.config.Store, a.config.Seed, a.config.Width, a.config.Height)
	if err != nil {
		log.Printf("Error starting recording: %v", err)
		return nil
	}
	log.Printf("Recording session %s", rec.ID())
	return rec
}

// Snapshot returns the current game state.
func (a *App) Snapshot() engine.Snapshot {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Snapshot()
}

// LatestJPEG returns the last processed camera frame, JPEG encoded.
func (a *App) LatestJPEG() ([]byte, bool) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.jpeg, a.jpeg != nil
}

// Recording returns the id of the active recording, if any.
func (a *App) Recording() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.recorder == nil {
		return "", false
	}
	return a.recorder.ID(), true
}

// Start opens the camera and begins the pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if a.config.Record && a.config.Store != nil {
		rec, err := NewRecorder(a.config.Store, a.config.Seed, a.config.Width, a.config.Height)
		if err != nil {
			return err
		}
		a.recorder = rec
		log.Printf("Recording session %s", rec.ID())
	}

	if err := a.camera.Open(); err != nil {
		a.recorder = nil
		return fmt.Errorf("start pipeline: %w", err)
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.camera, a.stopCh, a.doneCh)

	log.Println("Game pipeline started")
	return nil
}

// Stop halts the pipeline, flushes the recording and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recorder != nil {
		if err := a.recorder.Flush(); err != nil {
			log.Printf("Error saving recording: %v", err)
		} else {
			log.Printf("Recording %s saved (%d frames)", a.recorder.ID(), a.recorder.Frames())
		}
		a.recorder = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Game pipeline stopped")
}

// Step runs one camera frame through detection and the engine at game time now
// (milliseconds). It reports whether the frame was active: it moved or a hand
// was seen.
func (a *App) Step(frame *gocv.Mat, now int64) (bool, error) {
	a.mu.RLock()
	d := a.detector
	a.mu.RUnlock()

	hands, moved, err := a.gate.Hands(frame, d.Detect)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
	}
	left, right := detector.Route(hands)

	in := engine.Input{Left: left, Right: right, Width: a.config.Width, Height: a.config.Height}
	a.engineMu.Lock()
	events := a.engine.Update(now, in)
	snap := a.engine.Snapshot()
	a.mu.RLock()
	rec, pub, listeners := a.recorder, a.publisher, a.listeners
	a.mu.RUnlock()
	// Recorded under engineMu so a restart never splits a frame from its game.
	if rec != nil {
		if err := rec.Add(now, in); err != nil {
			log.Printf("Error recording frame: %v", err)
		}
	}
	a.engineMu.Unlock()

	if pub != nil {
		if err := pub.Publish(snap, events); err != nil {
			log.Printf("Error publishing state: %v", err)
		}
	}
	a.dispatch(events, listeners)

	return moved || left != nil || right != nil, err
}

func (a *App) dispatch(events []event.Event, listeners []func(event.Event)) {
	for _, ev := range events {
		switch ev.Kind {
		case event.Lines:
			log.Printf("Cleared %d line(s)", ev.Value)
		case event.GameOver:
			log.Printf("Game over, score %d", ev.Value)
		}
		for _, fn := range listeners {
			fn(ev)
		}
	}
	if n := len(events); n > 0 {
		last := events[n-1]
		a.mu.Lock()
		a.last = &last
		a.mu.Unlock()
	}
}

// encodeFrame stores frame as the latest preview JPEG.
func (a *App) encodeFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.frameMu.Lock()
	a.jpeg = data
	a.frameMu.Unlock()
}
