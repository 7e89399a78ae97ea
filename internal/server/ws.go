package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/event"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local render sinks only
	},
}

// StateMessage is one websocket frame on /api/state.
type StateMessage struct {
	Snapshot engine.Snapshot `json:"snapshot"`
	Events   []event.Event   `json:"events,omitempty"`
}

// StateHub fans engine snapshots out to every connected websocket client. A
// client that fails a write is dropped.
type StateHub struct {
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
	last    []byte
}

// NewStateHub creates an empty hub.
func NewStateHub() *StateHub {
	return &StateHub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

// Clients returns the number of connected clients.
func (h *StateHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. A new client immediately receives the last published state.
func (h *StateHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	wmu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = wmu
	last := h.last
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	if last != nil {
		wmu.Lock()
		err := write(conn, last)
		wmu.Unlock()
		if err != nil {
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends the snapshot and the frame's events to all clients.
func (h *StateHub) Publish(snap engine.Snapshot, events []event.Event) error {
	msg, err := json.Marshal(StateMessage{Snapshot: snap, Events: events})
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.last = msg
	clients := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for c, m := range h.clients {
		clients[c] = m
	}
	h.mu.Unlock()

	for conn, wmu := range clients {
		wmu.Lock()
		err := write(conn, msg)
		wmu.Unlock()
		if err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}
	}
	return nil
}

func write(conn *websocket.Conn, msg []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}
