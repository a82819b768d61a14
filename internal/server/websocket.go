package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The event stream carries no secrets and the store stays
		// authoritative; any origin may listen.
		return true
	},
}

const writeDeadline = 10 * time.Second

// eventsHandler streams queue progress/completion events to the client as
// JSON messages until the client disconnects.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	// Subscribe before completing the handshake so a run triggered right
	// after the client sees the connection cannot slip past the stream.
	events, unsubscribe := s.queue.Subscribe()
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()
	slog.Info("event stream connected", "remote_addr", r.RemoteAddr)

	// Reader goroutine: only used to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(ev); err != nil {
				slog.Debug("event stream write failed", "error", err)
				return
			}
		}
	}
}
