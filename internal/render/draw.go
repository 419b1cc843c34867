// Package render draws game snapshots, either over the camera frame in a
// GoCV window or as text in a terminal.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/cursor"
	"github.com/ayusman/gesturetoe/internal/dwell"
	"github.com/ayusman/gesturetoe/internal/game"
	"github.com/ayusman/gesturetoe/internal/mode"
)

var (
	colorGrid   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorX      = color.RGBA{R: 235, G: 64, B: 52, A: 255}
	colorO      = color.RGBA{R: 52, G: 120, B: 235, A: 255}
	colorWin    = color.RGBA{R: 60, G: 220, B: 60, A: 255}
	colorPanel  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorItem   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	colorHover  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	colorBanner = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	colorPaused = color.RGBA{R: 160, G: 160, B: 160, A: 255}
)

const (
	font        = gocv.FontHersheySimplex
	cursorDot   = 8
	ringRadius  = 18
	markPadding = 0.2
)

// Draw paints snap over frame in place.
func Draw(frame *gocv.Mat, snap app.Snapshot, menu cursor.Layout) {
	if frame == nil || frame.Empty() {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	switch snap.Mode {
	case mode.Menu:
		drawMenu(frame, snap, menu, w, h)
	case mode.Playing:
		drawBoard(frame, snap, w, h)
	}

	drawCursors(frame, snap)

	if snap.Paused {
		gocv.PutText(frame, "PAUSED", image.Pt(w-120, 30), font, 0.8, colorPaused, 2)
	}
}

func drawMenu(frame *gocv.Mat, snap app.Snapshot, menu cursor.Layout, w, h int) {
	gocv.Rectangle(frame, cursor.Scale(menu.Panel, w, h), colorPanel, -1)
	gocv.PutText(frame, "TIC TAC TOE", cursor.ScalePoint(menu.Title, w, h), font, 1.2, colorGrid, 2)

	for _, z := range menu.Zones {
		r := cursor.Scale(z.Rect, w, h)
		c := colorItem
		if hovered(snap, dwell.Menu(int(z.Item))) {
			c = colorHover
		}
		gocv.Rectangle(frame, r, c, 2)
		gocv.PutText(frame, z.Item.Label(), image.Pt(r.Min.X+10, r.Max.Y-8), font, 0.7, c, 2)
	}
}

func drawBoard(frame *gocv.Mat, snap app.Snapshot, w, h int) {
	for i := 1; i < cursor.GridSize; i++ {
		x := i * w / cursor.GridSize
		y := i * h / cursor.GridSize
		gocv.Line(frame, image.Pt(x, 0), image.Pt(x, h), colorGrid, 3)
		gocv.Line(frame, image.Pt(0, y), image.Pt(w, y), colorGrid, 3)
	}

	for cell, p := range snap.Board {
		r := cursor.CellRect(cell, w, h)
		switch p {
		case game.X:
			drawX(frame, r)
		case game.O:
			drawO(frame, r)
		default:
			if hovered(snap, dwell.Cell(cell)) {
				gocv.Rectangle(frame, r.Inset(4), colorHover, 2)
			}
		}
	}

	if snap.WinningTriple != nil {
		from := cursor.CellCenter(snap.WinningTriple[0], w, h)
		to := cursor.CellCenter(snap.WinningTriple[2], w, h)
		gocv.Line(frame, from, to, colorWin, 8)
	}

	if banner := snap.Banner(); banner != "" {
		size := gocv.GetTextSize(banner, font, 2, 4)
		org := image.Pt((w-size.X)/2, (h+size.Y)/2)
		gocv.PutText(frame, banner, org, font, 2, colorBanner, 4)
		return
	}

	gocv.PutText(frame, "Turn: "+string(snap.Current), image.Pt(10, 30), font, 0.9, playerColor(snap.Current), 2)
}

func drawX(frame *gocv.Mat, r image.Rectangle) {
	r = shrink(r)
	gocv.Line(frame, r.Min, r.Max, colorX, 6)
	gocv.Line(frame, image.Pt(r.Max.X, r.Min.Y), image.Pt(r.Min.X, r.Max.Y), colorX, 6)
}

func drawO(frame *gocv.Mat, r image.Rectangle) {
	r = shrink(r)
	center := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	radius := min(r.Dx(), r.Dy()) / 2
	gocv.Circle(frame, center, radius, colorO, 6)
}

func drawCursors(frame *gocv.Mat, snap app.Snapshot) {
	for _, c := range snap.Cursors {
		if !c.Visible {
			continue
		}
		at := image.Pt(c.X, c.Y)
		col := playerColor(c.Player)
		gocv.Circle(frame, at, cursorDot, col, -1)
		if c.Progress > 0 {
			axes := image.Pt(ringRadius, ringRadius)
			gocv.Ellipse(frame, at, axes, -90, 0, 360*c.Progress, col, 3)
		}
	}
}

// shrink pads a cell rectangle so marks do not touch the grid lines.
func shrink(r image.Rectangle) image.Rectangle {
	dx := int(float64(r.Dx()) * markPadding)
	dy := int(float64(r.Dy()) * markPadding)
	return image.Rect(r.Min.X+dx, r.Min.Y+dy, r.Max.X-dx, r.Max.Y-dy)
}

func hovered(snap app.Snapshot, t dwell.Target) bool {
	for _, c := range snap.Cursors {
		if c.Visible && c.Target != nil && *c.Target == t {
			return true
		}
	}
	return false
}

func playerColor(p game.Player) color.RGBA {
	if p == game.O {
		return colorO
	}
	return colorX
}
