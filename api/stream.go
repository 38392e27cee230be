package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/status-im/asset-loader/asset"
	"github.com/status-im/asset-loader/events"
)

const (
	// Connection timeouts
	PING_INTERVAL = 20 * time.Second
	PONG_TIMEOUT  = 60 * time.Second
	WRITE_TIMEOUT = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamEvent is the wire shape of one lifecycle event
type streamEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// handleEvents upgrades the connection and streams loader lifecycle
// events to the client until either side closes
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
		return nil
	})

	sub := s.bus.Subscribe()
	defer sub.Cancel()

	// Reader goroutine: its only job is to surface client disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case evt, ok := <-sub.Chan():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := conn.WriteJSON(wireEvent(evt)); err != nil {
				log.Printf("WebSocket write failed: %v", err)
				return
			}
		}
	}
}

// wireEvent flattens event payloads into JSON-friendly shapes
func wireEvent(evt events.Event) streamEvent {
	out := streamEvent{Event: string(evt.Name)}

	switch payload := evt.Payload.(type) {
	case *asset.Item:
		out.Payload = payload.Describe()
	case map[string]*asset.Item:
		described := make(map[string]asset.Info, len(payload))
		for key, it := range payload {
			described[key] = it.Describe()
		}
		out.Payload = described
	default:
		out.Payload = evt.Payload
	}
	return out
}
