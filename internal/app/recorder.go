package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/store"
)

// RecordBatchSize is how many frames are buffered before they are written out.
const RecordBatchSize = 60

// Recorder appends every engine input of a session to a store recording so the
// session can be replayed later.
type Recorder struct {
	store   *store.Store
	rec     *store.Recording
	pending []store.Frame
}

// NewRecorder creates a recording named after the current time.
func NewRecorder(s *store.Store, seed uint64, width, height float64) (*Recorder, error) {
	rec := &store.Recording{
		Name:   "session " + time.Now().Format("2006-01-02 15:04:05"),
		Seed:   seed,
		Width:  width,
		Height: height,
	}
	if err := s.Recordings().Create(rec); err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return &Recorder{store: s, rec: rec}, nil
}

// ID returns the recording id.
func (r *Recorder) ID() string {
	return r.rec.ID
}

// Add buffers one frame, flushing when the batch is full.
func (r *Recorder) Add(now int64, in engine.Input) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	r.pending = append(r.pending, store.Frame{TimestampMs: now, Data: data})
	if len(r.pending) >= RecordBatchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes the buffered frames.
func (r *Recorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}
	if err := r.store.Recordings().AppendFrames(r.rec.ID, r.pending); err != nil {
		return fmt.Errorf("append frames: %w", err)
	}
	r.rec.FrameCount += len(r.pending)
	r.pending = r.pending[:0]
	return nil
}

// Frames returns how many frames have been written so far.
func (r *Recorder) Frames() int {
	return r.rec.FrameCount
}
