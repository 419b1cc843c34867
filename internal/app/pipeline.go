package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/detector"
)

// step runs one iteration of the frame loop:
//
//  1. Read a frame (already mirrored by the camera)
//  2. Detect hands, unless paused or the motion gate says the scene is still
//  3. Run the frame through the orchestrator
//  4. Render, then publish the rendered frame
//
// The returned bool is false when the renderer asked to quit.
func (a *App) step() (Snapshot, bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	now := a.config.Clock()
	width, height := frame.Cols(), frame.Rows()

	var snap Snapshot
	if a.IsEnabled() {
		hands, err := a.detect(frame)
		if err != nil {
			return Snapshot{}, false, fmt.Errorf("detect hands: %w", err)
		}
		snap = a.orch.Process(Frame{Hands: hands, Width: width, Height: height, At: now})
	} else {
		// A dwell must be held continuously; a pause interrupts it.
		a.orch.Session().Hover.Reset()
		snap = a.orch.Session().snapshot(width, height, now)
		snap.Paused = true
	}

	keepGoing := true
	if a.config.Renderer != nil {
		keepGoing = a.config.Renderer.Render(frame, snap)
	}
	if a.config.Publisher != nil {
		a.config.Publisher.Publish(snap, frame)
	}

	a.mu.Lock()
	a.latest = snap
	a.mu.Unlock()

	return snap, keepGoing, nil
}

// detect returns the hands in frame. With a motion gate configured, a still
// scene reuses the previous observation instead of running inference: a hand
// held motionless over a target must keep dwelling.
func (a *App) detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	if a.motion != nil && a.lastHands != nil {
		if moving, change := a.motion.Detect(frame); !moving {
			log.Trace().Float64("change", change).Msg("scene still, reusing hands")
			return a.lastHands, nil
		}
	} else if a.motion != nil {
		a.motion.Detect(frame)
	}

	start := time.Now()
	hands, err := a.detector.Detect(frame)
	if err != nil {
		return nil, err
	}
	log.Trace().
		Int("hands", len(hands)).
		Dur("took", time.Since(start)).
		Msg("detected")

	a.lastHands = hands
	return hands, nil
}
