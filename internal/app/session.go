package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/gesturetoe/internal/dwell"
	"github.com/ayusman/gesturetoe/internal/game"
	"github.com/ayusman/gesturetoe/internal/gesture"
	"github.com/ayusman/gesturetoe/internal/mode"
)

// Cursor is the last known fingertip of one player.
type Cursor struct {
	Player   game.Player   `json:"player"`
	Visible  bool          `json:"visible"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Gesture  gesture.Label `json:"gesture"`
	Target   *dwell.Target `json:"target,omitempty"`
	Progress float64       `json:"progress"`
}

// Session is the mutable state of one run: mode, game, per-player dwell
// slots and cursors. It is owned by the frame loop and handed to each
// component by reference.
type Session struct {
	ID      string
	GameID  string
	Mode    mode.Mode
	Game    *game.State
	Hover   *dwell.Debouncer
	Cursors [2]Cursor
	Result  game.Result

	frames uint64
}

// NewSession starts in the menu with an empty board.
func NewSession(hoverTime time.Duration) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		Mode:  mode.Menu,
		Game:  game.New(),
		Hover: dwell.New(hoverTime),
	}
	for i, p := range game.Players {
		s.Cursors[i].Player = p
	}
	return s
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	SessionID     string      `json:"session_id"`
	GameID        string      `json:"game_id,omitempty"`
	Frame         uint64      `json:"frame"`
	Timestamp     int64       `json:"timestamp"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Mode          mode.Mode   `json:"mode"`
	Board         game.Board  `json:"board"`
	Current       game.Player `json:"current"`
	GameOver      bool        `json:"game_over"`
	Outcome       string      `json:"outcome"`
	Winner        game.Player `json:"winner,omitempty"`
	WinningTriple *[3]int     `json:"winning_triple,omitempty"`
	Cursors       [2]Cursor   `json:"cursors"`
	Paused        bool        `json:"paused,omitempty"`
}

// Terminated reports whether the session has exited.
func (s Snapshot) Terminated() bool {
	return s.Mode == mode.Terminated
}

// Banner is the result line shown over a finished game.
func (s Snapshot) Banner() string {
	if !s.GameOver {
		return ""
	}
	if s.Outcome == game.Draw.String() {
		return "DRAW!"
	}
	return string(s.Winner) + " WINS!"
}

func (s *Session) snapshot(width, height int, at time.Time) Snapshot {
	g := s.Game.Clone()
	return Snapshot{
		SessionID:     s.ID,
		GameID:        s.GameID,
		Frame:         s.frames,
		Timestamp:     at.UnixMilli(),
		Width:         width,
		Height:        height,
		Mode:          s.Mode,
		Board:         g.Board,
		Current:       g.Current,
		GameOver:      g.GameOver,
		Outcome:       s.Result.Outcome.String(),
		Winner:        s.Result.Winner,
		WinningTriple: g.WinningTriple,
		Cursors:       s.Cursors,
	}
}
