package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/gesturetoe/internal/cursor"
	"github.com/ayusman/gesturetoe/internal/detector"
	"github.com/ayusman/gesturetoe/internal/dwell"
	"github.com/ayusman/gesturetoe/internal/game"
	"github.com/ayusman/gesturetoe/internal/gesture"
	"github.com/ayusman/gesturetoe/internal/mode"
)

// Frame is one set of hand observations and the viewport they were seen in.
type Frame struct {
	Hands  []detector.HandLandmarks
	Width  int
	Height int
	At     time.Time
}

// EventKind names something the orchestrator did in response to input.
type EventKind string

const (
	EventModeChanged EventKind = "mode_changed"
	EventMove        EventKind = "move"
	EventRejected    EventKind = "rejected"
	EventGameOver    EventKind = "game_over"
)

// Event describes one state change. Fields not relevant to Kind are zero.
type Event struct {
	Kind    EventKind
	Player  game.Player
	Cell    int
	From    mode.Mode
	To      mode.Mode
	Trigger mode.Trigger
	Result  game.Result
	Err     error
}

// String renders the event for status lines, e.g. "X played 4".
func (e Event) String() string {
	switch e.Kind {
	case EventModeChanged:
		return fmt.Sprintf("%s: %s -> %s", e.Trigger, e.From, e.To)
	case EventMove:
		return fmt.Sprintf("%s played %d", e.Player, e.Cell)
	case EventRejected:
		return fmt.Sprintf("%s rejected on %d: %v", e.Player, e.Cell, e.Err)
	case EventGameOver:
		if e.Result.Outcome == game.Win {
			return fmt.Sprintf("%s wins", e.Result.Winner)
		}
		return "draw"
	default:
		return string(e.Kind)
	}
}

// Orchestrator drives one Session from per-frame hand observations.
// It is not safe for concurrent use; all calls must come from the frame loop.
type Orchestrator struct {
	session *Session
	menu    cursor.Layout
	onEvent func(Event)
}

// NewOrchestrator creates an orchestrator over session using the default menu.
func NewOrchestrator(session *Session) *Orchestrator {
	return &Orchestrator{
		session: session,
		menu:    cursor.DefaultMenu(),
	}
}

// OnEvent registers a callback invoked synchronously for every event.
func (o *Orchestrator) OnEvent(fn func(Event)) {
	o.onEvent = fn
}

// Session returns the session being driven.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Menu returns the menu layout used for hit testing.
func (o *Orchestrator) Menu() cursor.Layout {
	return o.menu
}

// Process runs one frame through the interaction pipeline:
//
//  1. Attribute hands to player slots by handedness
//  2. Per player: classify the gesture; an open palm while playing aborts
//     to the menu and skips the rest of that hand
//  3. Otherwise resolve the cursor target and feed the dwell debouncer
//  4. Dispatch confirmations to the mode controller or the game
//  5. Settle the game result
func (o *Orchestrator) Process(f Frame) Snapshot {
	s := o.session
	s.frames++

	if s.Mode == mode.Terminated {
		return s.snapshot(f.Width, f.Height, f.At)
	}

	slots := assignSlots(f.Hands)
	for slot, hand := range slots {
		if s.Mode == mode.Terminated {
			break
		}
		o.processHand(slot, hand, f)
	}

	o.settle()

	return s.snapshot(f.Width, f.Height, f.At)
}

func (o *Orchestrator) processHand(slot int, hand *detector.HandLandmarks, f Frame) {
	s := o.session
	c := &s.Cursors[slot]

	if hand == nil {
		s.Hover.Update(slot, dwell.Target{}, false, f.At)
		c.Visible = false
		c.Gesture = gesture.None
		c.Target = nil
		c.Progress = 0
		return
	}

	label := gesture.Classify(hand)
	px := cursor.ToPixel(hand.Tip(), f.Width, f.Height)
	c.Visible = true
	c.X, c.Y = px.X, px.Y
	c.Gesture = label

	if label == gesture.OpenPalm && s.Mode == mode.Playing {
		o.fire(c.Player, mode.OpenPalm)
		c.Target = nil
		c.Progress = 0
		return
	}

	target, ok := o.resolveTarget(hand.Tip(), f.Width, f.Height)
	confirmed, fired := s.Hover.Update(slot, target, ok, f.At)

	c.Target = nil
	if sel, active := s.Hover.Selection(slot); active {
		c.Target = &sel.Target
	}
	c.Progress = s.Hover.Progress(slot, f.At)

	if !ok {
		return
	}
	if !fired {
		log.Trace().Str("player", string(c.Player)).Stringer("target", target).Msg("hovering")
		return
	}

	o.dispatch(c.Player, confirmed)
}

// resolveTarget returns what the fingertip points at in the current mode.
// In play only empty cells are targets.
func (o *Orchestrator) resolveTarget(tip detector.Point3D, width, height int) (dwell.Target, bool) {
	s := o.session

	switch s.Mode {
	case mode.Menu:
		item, ok := o.menu.HitTest(tip, width, height)
		if !ok {
			return dwell.Target{}, false
		}
		return dwell.Menu(int(item)), true

	case mode.Playing:
		cell, ok := cursor.MapToCell(tip, width, height)
		if !ok || !s.Game.IsFree(cell) {
			return dwell.Target{}, false
		}
		return dwell.Cell(cell), true
	}

	return dwell.Target{}, false
}

func (o *Orchestrator) dispatch(player game.Player, target dwell.Target) {
	s := o.session

	switch {
	case target.Kind == dwell.KindMenu && s.Mode == mode.Menu:
		o.fire(player, menuTrigger(cursor.MenuItem(target.Index)))

	case target.Kind == dwell.KindCell && s.Mode == mode.Playing:
		if err := s.Game.AttemptMove(player, target.Index); err != nil {
			log.Debug().Err(err).
				Str("player", string(player)).
				Int("cell", target.Index).
				Msg("move rejected")
			o.emit(Event{Kind: EventRejected, Player: player, Cell: target.Index, Err: err})
			return
		}
		s.Hover.ClearTarget(target)

		log.Info().
			Str("game", s.GameID).
			Str("player", string(player)).
			Int("cell", target.Index).
			Msg("move")
		o.emit(Event{Kind: EventMove, Player: player, Cell: target.Index})
	}
}

func (o *Orchestrator) fire(player game.Player, trigger mode.Trigger) {
	s := o.session

	from := s.Mode
	tr, err := mode.Fire(&s.Mode, trigger)
	if err != nil {
		log.Debug().Err(err).Msg("ignored trigger")
		return
	}

	s.Hover.Reset()
	if tr.ResetBoard {
		s.Game.Reset()
		s.Result = game.Result{}
	}
	switch {
	case tr.To == mode.Playing:
		s.GameID = uuid.NewString()
	case tr.From == mode.Playing:
		s.GameID = ""
	}

	log.Info().
		Str("session", s.ID).
		Str("game", s.GameID).
		Str("player", string(player)).
		Stringer("trigger", trigger).
		Stringer("from", from).
		Stringer("to", tr.To).
		Msg("mode changed")
	o.emit(Event{Kind: EventModeChanged, Player: player, From: from, To: tr.To, Trigger: trigger})
}

func (o *Orchestrator) settle() {
	s := o.session

	wasOver := s.Game.GameOver
	s.Result = s.Game.Settle()
	if wasOver || !s.Game.GameOver {
		return
	}

	log.Info().
		Str("game", s.GameID).
		Stringer("outcome", s.Result.Outcome).
		Str("winner", string(s.Result.Winner)).
		Msg("game over")
	o.emit(Event{Kind: EventGameOver, Player: s.Result.Winner, Result: s.Result})
}

func (o *Orchestrator) emit(e Event) {
	if o.onEvent != nil {
		o.onEvent(e)
	}
}

func menuTrigger(item cursor.MenuItem) mode.Trigger {
	switch item {
	case cursor.Start:
		return mode.Start
	case cursor.Reset:
		return mode.Reset
	default:
		return mode.Exit
	}
}

// assignSlots gives each player at most one hand: Left plays X, Right plays
// O. When the tracker reports two hands with the same label the more
// confident one wins. Hands with any other label are ignored.
func assignSlots(hands []detector.HandLandmarks) [2]*detector.HandLandmarks {
	var slots [2]*detector.HandLandmarks
	for i := range hands {
		h := &hands[i]

		var slot int
		switch h.Handedness {
		case detector.Left:
			slot = game.X.Slot()
		case detector.Right:
			slot = game.O.Slot()
		default:
			continue
		}

		if slots[slot] == nil || h.Score > slots[slot].Score {
			slots[slot] = h
		}
	}
	return slots
}
