// Package main is an event hook that speaks gesturetoe results aloud. It uses
// say on macOS and spd-say elsewhere. Build it into this directory:
//
//	go build -o announce ./hooks/announce
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request is the event written to stdin.
type Request struct {
	Event   string          `json:"event"`
	Message string          `json:"message"`
	To      string          `json:"to,omitempty"`
	Outcome string          `json:"outcome,omitempty"`
	Winner  string          `json:"winner,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response is written to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type settings struct {
	Voice string `json:"voice"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("decode request: %w", err))
		return
	}

	var cfg settings
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(fmt.Errorf("decode config: %w", err))
			return
		}
	}

	phrase := phraseFor(req)
	if phrase == "" {
		writeResponse(nil)
		return
	}
	writeResponse(speak(phrase, cfg.Voice))
}

// phraseFor returns what to say for an event, or "" to stay quiet.
func phraseFor(req Request) string {
	switch req.Event {
	case "game_over":
		if req.Outcome == "draw" {
			return "It's a draw"
		}
		return fmt.Sprintf("%s wins", req.Winner)
	case "mode_changed":
		switch req.To {
		case "playing":
			return "New game"
		case "menu":
			return "Back to menu"
		case "terminated":
			return "Goodbye"
		}
	}
	return ""
}

func speak(phrase, voice string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		args := []string{phrase}
		if voice != "" {
			args = []string{"-v", voice, phrase}
		}
		cmd = exec.Command("say", args...)
	} else {
		args := []string{phrase}
		if voice != "" {
			args = []string{"-t", voice, phrase}
		}
		cmd = exec.Command("spd-say", args...)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
