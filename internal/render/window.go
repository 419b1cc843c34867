package render

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/cursor"
)

// KeyEsc is the key code that closes the window.
const KeyEsc = 27

// Window shows the annotated camera view in a HighGUI window. It must be
// created and used on the main OS thread.
type Window struct {
	window *gocv.Window
	menu   cursor.Layout
}

// NewWindow opens a window with the given title.
func NewWindow(title string) *Window {
	return &Window{
		window: gocv.NewWindow(title),
		menu:   cursor.DefaultMenu(),
	}
}

// Render draws snap onto frame, shows it and polls the keyboard. It returns
// false once Esc is pressed or the window has been closed.
func (w *Window) Render(frame *gocv.Mat, snap app.Snapshot) bool {
	Draw(frame, snap, w.menu)
	w.window.IMShow(*frame)

	if w.window.WaitKey(1) == KeyEsc {
		return false
	}
	return w.window.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}
