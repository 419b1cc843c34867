package server

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/app"
)

// clientBuffer is how many snapshots may queue for one slow WebSocket client
// before newer ones are dropped for it.
const clientBuffer = 8

// Hub holds the latest published snapshot and frame and fans them out to
// WebSocket and MJPEG clients. It implements app.Publisher; Publish is
// called from the frame loop and never blocks on clients.
type Hub struct {
	mu      sync.RWMutex
	snap    app.Snapshot
	state   []byte
	jpeg    []byte
	seq     uint64
	ready   chan struct{}
	clients map[*client]struct{}

	viewers atomic.Int32
}

type client struct {
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		ready:   make(chan struct{}),
		clients: make(map[*client]struct{}),
	}
}

// Publish records snap, encodes frame for stream viewers and notifies
// everyone waiting. frame may be nil.
func (h *Hub) Publish(snap app.Snapshot, frame *gocv.Mat) {
	var jpeg []byte
	if frame != nil && !frame.Empty() && h.viewers.Load() > 0 {
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
		if err != nil {
			log.Warn().Err(err).Msg("failed to encode stream frame")
		} else {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}
	h.publish(snap, jpeg)
}

// publish stores snap and, when jpeg is non-nil, a new stream frame, then
// wakes WebSocket clients and stream viewers.
func (h *Hub) publish(snap app.Snapshot, jpeg []byte) {
	state, err := json.Marshal(snap)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap = snap
	h.state = state
	if jpeg != nil {
		h.jpeg = jpeg
		h.seq++
	}
	h.broadcastLocked(state)
}

func (h *Hub) broadcastLocked(state []byte) {
	for c := range h.clients {
		select {
		case c.send <- state:
		default:
			log.Debug().Msg("websocket client behind, dropping snapshot")
		}
	}
	close(h.ready)
	h.ready = make(chan struct{})
}

// Latest returns the last published snapshot as JSON, or nil before the
// first publish.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Snapshot returns the last published snapshot.
func (h *Hub) Snapshot() app.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Clients returns the number of connected WebSocket clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Viewers returns the number of connected stream viewers.
func (h *Hub) Viewers() int {
	return int(h.viewers.Load())
}

func (h *Hub) register() *client {
	c := &client{send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.state != nil {
		c.send <- h.state
	}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// frame returns the latest JPEG, its sequence number and a channel closed
// on the next publish.
func (h *Hub) frame() ([]byte, uint64, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.seq, h.ready
}
