package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createRecording(t *testing.T, s *store.Store, name string) *store.Recording {
	t.Helper()
	rec := &store.Recording{Name: name, Seed: 7, Width: 640, Height: 480}
	if err := s.Recordings().Create(rec); err != nil {
		t.Fatalf("failed to create recording: %v", err)
	}
	return rec
}

func TestRecordingHandler_List(t *testing.T) {
	s := setupTestStore(t)
	h := NewRecordingHandler(s, config.Default())

	t.Run("empty list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recordings", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var resp listRecordingsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Recordings == nil || len(resp.Recordings) != 0 {
			t.Errorf("expected empty non-nil list, got %v", resp.Recordings)
		}
	})

	t.Run("lists created recordings", func(t *testing.T) {
		createRecording(t, s, "one")
		createRecording(t, s, "two")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recordings", nil))

		var resp listRecordingsResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if len(resp.Recordings) != 2 {
			t.Errorf("expected 2 recordings, got %d", len(resp.Recordings))
		}
	})

	t.Run("rejects POST on the collection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recordings", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestRecordingHandler_Errors(t *testing.T) {
	s := setupTestStore(t)
	h := NewRecordingHandler(s, config.Default())
	existing := createRecording(t, s, "existing")

	corrupt := createRecording(t, s, "corrupt")
	if err := s.Recordings().AppendFrames(corrupt.ID, []store.Frame{{TimestampMs: 0, Data: json.RawMessage(`"nope"`)}}); err != nil {
		t.Fatalf("AppendFrames() error = %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"get missing", http.MethodGet, "/api/recordings/missing", "", http.StatusNotFound, "Recording not found"},
		{"delete missing", http.MethodDelete, "/api/recordings/missing", "", http.StatusNotFound, "Recording not found"},
		{"frames missing", http.MethodGet, "/api/recordings/missing/frames", "", http.StatusNotFound, "Recording not found"},
		{"replay missing", http.MethodPost, "/api/recordings/missing/replay", "", http.StatusNotFound, "Recording not found"},
		{"rename invalid json", http.MethodPut, "/api/recordings/" + existing.ID, "{", http.StatusBadRequest, "Invalid JSON"},
		{"rename empty name", http.MethodPut, "/api/recordings/" + existing.ID, `{"name":""}`, http.StatusBadRequest, "Name is required"},
		{"unknown sub-resource", http.MethodGet, "/api/recordings/" + existing.ID + "/bogus", "", http.StatusNotFound, "Unknown resource"},
		{"replay corrupt frames", http.MethodPost, "/api/recordings/" + corrupt.ID + "/replay", "", http.StatusUnprocessableEntity, "Corrupt frame data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp errorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, resp.Error)
			}
		})
	}

	t.Run("wrong method on frames", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/recordings/"+existing.ID+"/frames", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestRecordingHandler_Frames(t *testing.T) {
	s := setupTestStore(t)
	h := NewRecordingHandler(s, config.Default())
	r := createRecording(t, s, "empty")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recordings/"+r.ID+"/frames", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if got := rec.Body.String(); got != "{\"frames\":[]}\n" {
		t.Errorf("body = %q, want empty frames array", got)
	}
}
