// Package mode is the top-level Menu/Playing state machine.
package mode

import (
	"errors"
	"fmt"
)

// ErrNoTransition is returned when a trigger is not defined for the current mode.
var ErrNoTransition = errors.New("no transition")

// Mode is the top-level phase of the system.
type Mode int

const (
	Menu Mode = iota
	Playing
	// Terminated is entered through Exit and never left.
	Terminated
)

func (m Mode) String() string {
	switch m {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name for JSON snapshots.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Trigger is an input that may move the machine.
type Trigger int

const (
	// Start, Reset and Exit are confirmed menu selections.
	Start Trigger = iota
	Reset
	Exit
	// OpenPalm is the immediate abort gesture.
	OpenPalm
)

func (t Trigger) String() string {
	switch t {
	case Start:
		return "start"
	case Reset:
		return "reset"
	case Exit:
		return "exit"
	case OpenPalm:
		return "open-palm"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// Transition is one edge of the machine.
type Transition struct {
	From       Mode
	Trigger    Trigger
	To         Mode
	ResetBoard bool
}

var transitions = []Transition{
	{From: Menu, Trigger: Start, To: Playing, ResetBoard: true},
	{From: Menu, Trigger: Reset, To: Menu, ResetBoard: true},
	{From: Menu, Trigger: Exit, To: Terminated},
	{From: Playing, Trigger: OpenPalm, To: Menu, ResetBoard: true},
}

// Lookup returns the transition for trigger in mode from.
func Lookup(from Mode, trigger Trigger) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Trigger == trigger {
			return t, true
		}
	}
	return Transition{}, false
}

// Fire applies trigger to *m. On success *m holds the new mode and the
// transition is returned so the caller can apply its side effects. Undefined
// triggers leave *m unchanged and return ErrNoTransition.
func Fire(m *Mode, trigger Trigger) (Transition, error) {
	t, ok := Lookup(*m, trigger)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s in %s", ErrNoTransition, trigger, *m)
	}
	*m = t.To
	return t, nil
}
