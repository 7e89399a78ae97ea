// Package server provides the HTTP surface of pinchfall: the recordings API, the
// live state websocket and the camera preview.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/server/api"
	"github.com/ayusman/pinchfall/internal/store"
)

// Controller is the part of the runtime the server can drive.
type Controller interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
	Restart()
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      config.Config
	Frames    FrameSource
	Control   Controller
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *StateHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewStateHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Hub returns the hub that feeds /api/state.
func (s *Server) Hub() *StateHub {
	return s.hub
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/state", s.hub)

	if s.config.Store != nil {
		recordings := api.NewRecordingHandler(s.config.Store, s.config.Game)
		s.mux.Handle("/api/recordings", recordings)
		s.mux.Handle("/api/recordings/", recordings)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Control != nil {
		s.mux.HandleFunc("/api/game", s.handleGame)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"clients": s.hub.Clients(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type gameRequest struct {
	Action string `json:"action"`
}

// handleGame reports whether the game loop is running (GET) or applies one of
// pause, resume and restart (POST).
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	ctl := s.config.Control
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req gameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		switch req.Action {
		case "pause":
			ctl.SetEnabled(false)
		case "resume":
			ctl.SetEnabled(true)
		case "restart":
			ctl.Restart()
		default:
			http.Error(w, "Unknown action", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"enabled": ctl.IsEnabled()})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
