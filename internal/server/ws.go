package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler pushes every published snapshot to WebSocket clients as a
// JSON text message. A new client first receives the latest snapshot.
type StateHandler struct {
	hub *Hub
}

// NewStateHandler creates a StateHandler reading from hub.
func NewStateHandler(hub *Hub) *StateHandler {
	return &StateHandler{hub: hub}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	defer conn.Close()

	c := h.hub.register()
	defer h.hub.unregister(c)

	log.Debug().Str("remote", r.RemoteAddr).Msg("state client connected")

	// The read loop only notices the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			log.Debug().Str("remote", r.RemoteAddr).Msg("state client disconnected")
			return
		case <-r.Context().Done():
			return
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}
