package hook

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/game"
)

// DefaultQueueSize is the number of pending events a Dispatcher buffers.
const DefaultQueueSize = 32

// Dispatcher runs hooks for game events on a background worker. Notify never
// blocks the frame loop; events are dropped while the queue is full.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan Request
	wg       sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewDispatcher creates a Dispatcher with a queue of size events.
func NewDispatcher(manager *Manager, executor *Executor, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		queue:    make(chan Request, size),
	}
}

// Start launches the worker. Hook runs are cancelled with ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for req := range d.queue {
			d.run(ctx, req)
		}
	}()
}

// Notify queues req. It returns false when the event was dropped.
func (d *Dispatcher) Notify(req Request) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	select {
	case d.queue <- req:
		return true
	default:
		d.dropped++
		log.Warn().Str("event", req.Event).Msg("hook queue full, event dropped")
		return false
	}
}

// Handle queues a game event.
func (d *Dispatcher) Handle(e app.Event, sessionID, gameID string) bool {
	return d.Notify(NewRequest(e, sessionID, gameID))
}

// Close stops accepting events and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// Dropped returns how many events were dropped on a full queue.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *Dispatcher) run(ctx context.Context, req Request) {
	for _, h := range d.manager.Subscribers(req.Event) {
		if ctx.Err() != nil {
			return
		}

		resp, err := d.executor.Execute(ctx, h, req)
		switch {
		case err != nil:
			log.Error().Err(err).Str("hook", h.Manifest.Name).Str("event", req.Event).Msg("hook failed")
		case !resp.Success:
			log.Warn().Str("hook", h.Manifest.Name).Str("event", req.Event).Str("error", resp.Error).Msg("hook reported failure")
		default:
			log.Debug().Str("hook", h.Manifest.Name).Str("event", req.Event).Msg("hook ran")
		}
	}
}

// NewRequest converts a game event into a hook request.
func NewRequest(e app.Event, sessionID, gameID string) Request {
	req := Request{
		Event:     string(e.Kind),
		Message:   e.String(),
		SessionID: sessionID,
		GameID:    gameID,
		Player:    string(e.Player),
	}

	switch e.Kind {
	case app.EventModeChanged:
		req.From = e.From.String()
		req.To = e.To.String()
	case app.EventMove, app.EventRejected:
		cell := e.Cell
		req.Cell = &cell
	case app.EventGameOver:
		req.Outcome = e.Result.Outcome.String()
		if e.Result.Outcome == game.Win {
			req.Winner = string(e.Result.Winner)
		}
		req.Player = ""
	}
	return req
}
