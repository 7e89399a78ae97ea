package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/engine"
	"github.com/ayusman/pinchfall/internal/event"
)

func dialState(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return conn
}

func waitClients(t *testing.T, h *StateHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want %d", h.Clients(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readState(t *testing.T, conn *websocket.Conn) StateMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg StateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	return msg
}

func TestStateHub_Publish(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialState(t, ts.URL)
	defer conn.Close()
	waitClients(t, srv.Hub(), 1)

	e, err := engine.New(config.Default(), 1)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	events := e.Update(0, engine.Input{Width: 1280, Height: 960})

	if err := srv.Hub().Publish(e.Snapshot(), events); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msg := readState(t, conn)
	if msg.Snapshot.Active == nil {
		t.Fatal("snapshot has no active piece")
	}
	if len(msg.Events) != 1 || msg.Events[0].Kind != event.Spawn {
		t.Errorf("events = %+v, want one spawn", msg.Events)
	}
	if len(msg.Snapshot.Grid) != config.Default().Rows {
		t.Errorf("grid rows = %d, want %d", len(msg.Snapshot.Grid), config.Default().Rows)
	}

	// A late client is greeted with the last state.
	late := dialState(t, ts.URL)
	defer late.Close()
	if got := readState(t, late); got.Snapshot.Active == nil {
		t.Error("late client got no active piece")
	}
}

func TestStateHub_Disconnect(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn := dialState(t, ts.URL)
	waitClients(t, srv.Hub(), 1)
	conn.Close()
	waitClients(t, srv.Hub(), 0)
}
