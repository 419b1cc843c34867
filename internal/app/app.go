// Package app provides the main application logic for the gesturetoe game:
// the session, the frame orchestrator and the capture/detect/render loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/capture"
	"github.com/ayusman/gesturetoe/internal/detector"
	"github.com/ayusman/gesturetoe/internal/dwell"
)

// ErrNoCamera is returned by New when no camera is configured.
var ErrNoCamera = errors.New("no camera configured")

// ErrNoDetector is returned by New when no hand detector is configured.
var ErrNoDetector = errors.New("no hand detector configured")

// Renderer draws one frame. Render returns false when the user asked to quit.
type Renderer interface {
	Render(frame *gocv.Mat, snap Snapshot) bool
	Close() error
}

// Publisher receives every snapshot together with the rendered frame.
// The frame is only valid for the duration of the call.
type Publisher interface {
	Publish(snap Snapshot, frame *gocv.Mat)
}

// Config holds the collaborators and tunables of the frame loop.
type Config struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Motion    *capture.MotionDetector // optional; nil runs detection every frame
	Renderer  Renderer                // optional
	Publisher Publisher               // optional
	HoverTime time.Duration
	Clock     func() time.Time
}

// App runs the game loop against a camera and a hand detector.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	motion   *capture.MotionDetector
	orch     *Orchestrator

	mu      sync.RWMutex
	enabled bool
	latest  Snapshot

	lastHands []detector.HandLandmarks
}

// New creates an App. The session starts in the menu with detection enabled.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, ErrNoCamera
	}
	if config.Detector == nil {
		return nil, ErrNoDetector
	}
	if config.HoverTime <= 0 {
		config.HoverTime = dwell.DefaultHoverTime
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &App{
		config:   config,
		camera:   config.Camera,
		detector: config.Detector,
		motion:   config.Motion,
		orch:     NewOrchestrator(NewSession(config.HoverTime)),
		enabled:  true,
	}, nil
}

// SetEnabled pauses or resumes hand detection. While paused frames are still
// rendered, the board and mode do not change and in-progress dwells are
// dropped, so a resumed hand starts its dwell over.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether hand detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnEvent registers a callback for session events. It runs on the loop
// goroutine and must not block.
func (a *App) OnEvent(fn func(Event)) {
	a.orch.OnEvent(fn)
}

// Session returns the session. Only the loop goroutine may mutate it.
func (a *App) Session() *Session {
	return a.orch.Session()
}

// Latest returns the most recent snapshot. Safe for concurrent use.
func (a *App) Latest() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

// Run opens the camera and processes frames until ctx is cancelled, the
// renderer asks to quit, or the session exits through the menu. Camera and
// detector failures stop the loop and are returned wrapped.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.shutdown()

	log.Info().
		Str("session", a.Session().ID).
		Dur("hover_time", a.config.HoverTime).
		Bool("motion_gate", a.motion != nil).
		Msg("frame loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("frame loop cancelled")
			return nil
		default:
		}

		snap, keepGoing, err := a.step()
		if err != nil {
			return err
		}
		if snap.Terminated() {
			log.Info().Str("session", snap.SessionID).Msg("exit selected")
			return nil
		}
		if !keepGoing {
			log.Info().Msg("quit requested")
			return nil
		}
	}
}

func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		log.Error().Err(err).Msg("error closing camera")
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if err := a.detector.Close(); err != nil {
		log.Error().Err(err).Msg("error closing detector")
	}
	if a.config.Renderer != nil {
		if err := a.config.Renderer.Close(); err != nil {
			log.Error().Err(err).Msg("error closing renderer")
		}
	}
	log.Info().Msg("frame loop stopped")
}
