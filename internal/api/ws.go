package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dispatchopt/internal/store"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// jobEventsWS streams the same transitions as the SSE route over a WebSocket.
// Each event is one JSON message; the connection closes after a terminal
// event.
func (s *Server) jobEventsWS(w http.ResponseWriter, r *http.Request, id string) {
	view, err := s.Jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Job not found", "no job with id "+id, r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Job lookup failed", err.Error(), r.URL.Path)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ch, cancel := s.Broker.Subscribe(id)
	defer cancel()

	// Discard client frames, but notice disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(1 << 16)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snapshot := snapshotEvent(id, view.Status, view.Progress, view.Error)
	if err := conn.WriteJSON(snapshot); err != nil || snapshot.Terminal() {
		return
	}

	for {
		select {
		case <-closed:
			return
		case ev := <-ch:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
			if ev.Terminal() {
				return
			}
		case <-time.After(30 * time.Second):
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
