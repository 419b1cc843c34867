// Package hook runs external executables on game events. Each hook lives in
// its own directory with a hook.json manifest, receives one Request as JSON
// on stdin and answers with a Response on stdout.
package hook

import "encoding/json"

// Manifest describes a hook and the events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
	// Config is passed through to the hook untouched.
	Config json.RawMessage `json:"config,omitempty"`
}

// Subscribes reports whether the hook wants events of the given kind. An
// empty event list subscribes to everything.
func (m Manifest) Subscribes(kind string) bool {
	if len(m.Events) == 0 {
		return true
	}
	for _, e := range m.Events {
		if e == kind || e == "*" {
			return true
		}
	}
	return false
}

// Request is one game event as sent to a hook.
type Request struct {
	Event     string          `json:"event"`
	Message   string          `json:"message"`
	SessionID string          `json:"session_id"`
	GameID    string          `json:"game_id,omitempty"`
	Player    string          `json:"player,omitempty"`
	Cell      *int            `json:"cell,omitempty"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	Outcome   string          `json:"outcome,omitempty"`
	Winner    string          `json:"winner,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is what a hook writes back.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}
