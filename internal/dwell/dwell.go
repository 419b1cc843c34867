// Package dwell turns a pointer resting on one target into a single
// confirmed selection.
//
// Each input source (player) owns at most one Selection. A Selection starts
// when the source's target changes and confirms once the same target has
// been held for the configured hover time. Confirming clears the Selection
// and latches the target: holding on past the confirmation yields nothing
// more until the source leaves the target. Timing is driven entirely by the
// timestamps passed in, never by frame counts.
package dwell

import (
	"fmt"
	"time"
)

// DefaultHoverTime is how long a target must be held before it confirms.
const DefaultHoverTime = 1200 * time.Millisecond

// Kind distinguishes board cells from menu items.
type Kind int

const (
	KindCell Kind = iota
	KindMenu
)

// Target is something a pointer can rest on. Targets are compared by value.
type Target struct {
	Kind  Kind
	Index int
}

// Cell returns the target for a board cell.
func Cell(index int) Target { return Target{Kind: KindCell, Index: index} }

// Menu returns the target for a menu item.
func Menu(index int) Target { return Target{Kind: KindMenu, Index: index} }

func (t Target) String() string {
	if t.Kind == KindMenu {
		return fmt.Sprintf("menu:%d", t.Index)
	}
	return fmt.Sprintf("cell:%d", t.Index)
}

// MarshalText encodes the target as its String form, e.g. "cell:4".
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Selection is an in-progress dwell.
type Selection struct {
	Target Target
	Start  time.Time
}

// Debouncer tracks one Selection per source. Sources are small integer
// slots (player indices). The zero value is not usable; use New.
type Debouncer struct {
	hoverTime  time.Duration
	selections map[int]Selection
	latched    map[int]Target
}

// New creates a Debouncer. A non-positive hoverTime falls back to
// DefaultHoverTime.
func New(hoverTime time.Duration) *Debouncer {
	if hoverTime <= 0 {
		hoverTime = DefaultHoverTime
	}
	return &Debouncer{
		hoverTime:  hoverTime,
		selections: make(map[int]Selection),
		latched:    make(map[int]Target),
	}
}

// HoverTime returns the configured dwell time.
func (d *Debouncer) HoverTime() time.Duration {
	return d.hoverTime
}

// Update feeds the source's target for the frame observed at now. ok=false
// means the source has no valid target. It returns the confirmed target
// and true exactly once per completed dwell.
func (d *Debouncer) Update(source int, target Target, ok bool, now time.Time) (Target, bool) {
	if !ok {
		delete(d.selections, source)
		delete(d.latched, source)
		return Target{}, false
	}

	if latched, isLatched := d.latched[source]; isLatched {
		if latched == target {
			return Target{}, false
		}
		delete(d.latched, source)
	}

	sel, exists := d.selections[source]
	if !exists || sel.Target != target {
		d.selections[source] = Selection{Target: target, Start: now}
		return Target{}, false
	}

	if now.Sub(sel.Start) >= d.hoverTime {
		delete(d.selections, source)
		d.latched[source] = target
		return target, true
	}
	return Target{}, false
}

// Selection returns the source's in-progress dwell, if any.
func (d *Debouncer) Selection(source int) (Selection, bool) {
	sel, ok := d.selections[source]
	return sel, ok
}

// Progress returns how far the source's dwell has run at now, in [0,1].
// It is 0 when the source has no Selection.
func (d *Debouncer) Progress(source int, now time.Time) float64 {
	sel, ok := d.selections[source]
	if !ok {
		return 0
	}
	elapsed := now.Sub(sel.Start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= d.hoverTime {
		return 1
	}
	return float64(elapsed) / float64(d.hoverTime)
}

// Clear drops the source's Selection and latch.
func (d *Debouncer) Clear(source int) {
	delete(d.selections, source)
	delete(d.latched, source)
}

// ClearTarget drops every in-progress Selection resting on target.
func (d *Debouncer) ClearTarget(target Target) {
	for source, sel := range d.selections {
		if sel.Target == target {
			delete(d.selections, source)
		}
	}
}

// Reset drops all in-progress Selections. Latches survive so that a pointer
// still resting on a just-confirmed target does not fire it again.
func (d *Debouncer) Reset() {
	clear(d.selections)
}

// Active returns the number of in-progress dwells.
func (d *Debouncer) Active() int {
	return len(d.selections)
}
