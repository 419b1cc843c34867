// Package cursor maps a normalized fingertip position onto board cells and
// menu hit zones of the current viewport.
package cursor

import (
	"image"
	"math"

	"github.com/ayusman/gesturetoe/internal/detector"
)

// GridSize is the number of rows and columns on the board.
const GridSize = 3

// ToPixel converts a normalized point to whole-pixel viewport coordinates.
// Coordinates are floored, so a tip jittering just past the left or top edge
// lands on pixel -1 and reads as outside the viewport.
func ToPixel(p detector.Point3D, width, height int) image.Point {
	return image.Point{
		X: int(math.Floor(p.X * float64(width))),
		Y: int(math.Floor(p.Y * float64(height))),
	}
}

// InViewport reports whether a pixel lies inside a width x height viewport,
// edges included.
func InViewport(px image.Point, width, height int) bool {
	return px.X >= 0 && px.Y >= 0 && px.X <= width && px.Y <= height
}

// MapToCell returns the board cell under the fingertip, or false when the
// fingertip is outside the viewport or the viewport is empty.
func MapToCell(tip detector.Point3D, width, height int) (int, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}

	px := ToPixel(tip, width, height)
	if !InViewport(px, width, height) {
		return 0, false
	}

	col := clamp(int(math.Floor(float64(px.X)/(float64(width)/GridSize))), 0, GridSize-1)
	row := clamp(int(math.Floor(float64(px.Y)/(float64(height)/GridSize))), 0, GridSize-1)

	return row*GridSize + col, true
}

// CellRect returns the pixel rectangle of a board cell.
func CellRect(cell, width, height int) image.Rectangle {
	row, col := cell/GridSize, cell%GridSize
	return image.Rect(
		col*width/GridSize, row*height/GridSize,
		(col+1)*width/GridSize, (row+1)*height/GridSize,
	)
}

// CellCenter returns the pixel center of a board cell.
func CellCenter(cell, width, height int) image.Point {
	row, col := cell/GridSize, cell%GridSize
	return image.Point{
		X: col*width/GridSize + width/(2*GridSize),
		Y: row*height/GridSize + height/(2*GridSize),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
