package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/store"
)

// RecordingHandler serves /api/recordings and its sub-resources:
//
//	GET    /api/recordings
//	GET    /api/recordings/{id}
//	PUT    /api/recordings/{id}         rename
//	DELETE /api/recordings/{id}
//	GET    /api/recordings/{id}/frames
//	POST   /api/recordings/{id}/replay  run the frames through a fresh engine
type RecordingHandler struct {
	store *store.Store
	cfg   config.Config
}

// NewRecordingHandler creates a handler over s. Replays use cfg.
func NewRecordingHandler(s *store.Store, cfg config.Config) *RecordingHandler {
	return &RecordingHandler{store: s, cfg: cfg}
}

func (h *RecordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/recordings"), "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, id)
	case sub == "" && r.Method == http.MethodPut:
		h.rename(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, id)
	case sub == "frames" && r.Method == http.MethodGet:
		h.frames(w, id)
	case sub == "replay" && r.Method == http.MethodPost:
		h.replay(w, id)
	case sub == "" || sub == "frames" || sub == "replay":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		writeError(w, http.StatusNotFound, "Unknown resource")
	}
}

type recordingResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Seed       uint64  `json:"seed"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	FrameCount int     `json:"frame_count"`
	CreatedAt  string  `json:"created_at"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type replayResponse struct {
	Frames   int             `json:"frames"`
	Events   []event.Event   `json:"events"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

func toResponse(rec *store.Recording) recordingResponse {
	return recordingResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		Seed:       rec.Seed,
		Width:      rec.Width,
		Height:     rec.Height,
		FrameCount: rec.FrameCount,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

// lookupError maps a store error onto a response.
func lookupError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Recording not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to "+action+" recording")
}

func (h *RecordingHandler) list(w http.ResponseWriter) {
	recs, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}
	resp := listRecordingsResponse{Recordings: make([]recordingResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Recordings = append(resp.Recordings, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecordingHandler) get(w http.ResponseWriter, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		lookupError(w, err, "get")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *RecordingHandler) rename(w http.ResponseWriter, r *http.Request, id string) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if err := h.store.Recordings().Rename(id, req.Name); err != nil {
		lookupError(w, err, "rename")
		return
	}
	h.get(w, id)
}

func (h *RecordingHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Recordings().Delete(id); err != nil {
		lookupError(w, err, "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordingHandler) frames(w http.ResponseWriter, id string) {
	frames, err := h.store.Recordings().Frames(id)
	if err != nil {
		lookupError(w, err, "load")
		return
	}
	if frames == nil {
		frames = []store.Frame{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"frames": frames})
}

func (h *RecordingHandler) replay(w http.ResponseWriter, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		lookupError(w, err, "get")
		return
	}
	stored, err := h.store.Recordings().Frames(id)
	if err != nil {
		lookupError(w, err, "load")
		return
	}

	frames := make([]engine.Frame, 0, len(stored))
	for _, f := range stored {
		var in engine.Input
		if err := json.Unmarshal(f.Data, &in); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Corrupt frame data")
			return
		}
		frames = append(frames, engine.Frame{Time: f.TimestampMs, Input: in})
	}

	e, events, err := engine.Replay(h.cfg, rec.Seed, frames)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to replay recording")
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, replayResponse{
		Frames:   len(frames),
		Events:   events,
		Snapshot: e.Snapshot(),
	})
}
