package app

import (
	"log"
	"time"

	"github.com/ayusman/pinchfall/internal/capture"
)

// runPipeline is the frame loop.
//
//  1. Start at IdleFPS.
//  2. Read a frame and keep it as the preview JPEG.
//  3. Step the engine; the game clock only advances while enabled.
//  4. An active frame (motion or a hand) switches to ActiveFPS.
//  5. After IdleTimeoutMs without one, drop back to IdleFPS.
func (a *App) runPipeline(cam capture.Camera, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	activeMode := false
	lastActive := time.Now()
	lastTick := time.Now()
	var gameTime int64

	ticker := time.NewTicker(time.Second / time.Duration(capture.IdleFPS))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tick := <-ticker.C:
			elapsed := tick.Sub(lastTick).Milliseconds()
			lastTick = tick
			if !a.IsEnabled() {
				continue
			}
			gameTime += elapsed

			frame, err := cam.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}
			a.encodeFrame(frame)
			active, _ := a.Step(frame, gameTime)
			frame.Close()

			if active {
				lastActive = tick
				if !activeMode {
					activeMode = true
					cam.SetFPS(capture.ActiveFPS)
					ticker.Reset(time.Second / time.Duration(capture.ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && tick.Sub(lastActive) > IdleTimeoutMs*time.Millisecond {
				activeMode = false
				cam.SetFPS(capture.IdleFPS)
				ticker.Reset(time.Second / time.Duration(capture.IdleFPS))
				log.Println("Switched to idle mode")
			}
		}
	}
}
