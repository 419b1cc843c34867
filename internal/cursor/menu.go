package cursor

import (
	"image"

	"github.com/ayusman/gesturetoe/internal/detector"
)

// MenuItem identifies one selectable entry of the main menu.
type MenuItem int

const (
	Start MenuItem = iota
	Reset
	Exit
)

func (m MenuItem) String() string {
	switch m {
	case Start:
		return "start"
	case Reset:
		return "reset"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Label is the text drawn for the item.
func (m MenuItem) Label() string {
	switch m {
	case Start:
		return "START GAME"
	case Reset:
		return "RESET GAME"
	case Exit:
		return "EXIT"
	default:
		return ""
	}
}

// Reference frame the menu geometry is authored against.
const (
	RefWidth  = 640
	RefHeight = 480
)

// Zone is a menu hit zone in reference-frame pixels. Hits are exclusive of
// the zone's edges.
type Zone struct {
	Item MenuItem
	Rect image.Rectangle
}

// Layout is an ordered set of menu hit zones plus the panel behind them.
type Layout struct {
	Panel image.Rectangle
	Title image.Point
	Zones []Zone
}

// DefaultMenu returns the three-item main menu.
func DefaultMenu() Layout {
	return Layout{
		Panel: image.Rect(150, 150, 500, 400),
		Title: image.Pt(190, 190),
		Zones: []Zone{
			{Item: Start, Rect: image.Rect(220, 230, 450, 260)},
			{Item: Reset, Rect: image.Rect(220, 280, 450, 310)},
			{Item: Exit, Rect: image.Rect(220, 330, 450, 360)},
		},
	}
}

// HitTest returns the menu item under the fingertip for a width x height
// viewport.
func (l Layout) HitTest(tip detector.Point3D, width, height int) (MenuItem, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}

	px := ToPixel(tip, width, height)
	if !InViewport(px, width, height) {
		return 0, false
	}

	for _, z := range l.Zones {
		r := Scale(z.Rect, width, height)
		if px.X > r.Min.X && px.X < r.Max.X && px.Y > r.Min.Y && px.Y < r.Max.Y {
			return z.Item, true
		}
	}
	return 0, false
}

// Rect returns the viewport rectangle of an item, or an empty rectangle if
// the layout has no such item.
func (l Layout) Rect(item MenuItem, width, height int) image.Rectangle {
	for _, z := range l.Zones {
		if z.Item == item {
			return Scale(z.Rect, width, height)
		}
	}
	return image.Rectangle{}
}

// Scale maps a reference-frame rectangle onto a width x height viewport.
func Scale(r image.Rectangle, width, height int) image.Rectangle {
	return image.Rect(
		r.Min.X*width/RefWidth, r.Min.Y*height/RefHeight,
		r.Max.X*width/RefWidth, r.Max.Y*height/RefHeight,
	)
}

// ScalePoint maps a reference-frame point onto a width x height viewport.
func ScalePoint(p image.Point, width, height int) image.Point {
	return image.Pt(p.X*width/RefWidth, p.Y*height/RefHeight)
}
