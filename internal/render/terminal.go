package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/cursor"
	"github.com/ayusman/gesturetoe/internal/dwell"
	"github.com/ayusman/gesturetoe/internal/game"
	"github.com/ayusman/gesturetoe/internal/mode"
)

const (
	colorTextX     lipgloss.Color = "#f38ba8"
	colorTextO     lipgloss.Color = "#89b4fa"
	colorTextHover lipgloss.Color = "#f9e2af"
	colorTextWin   lipgloss.Color = "#a6e3a1"
	colorTextDim   lipgloss.Color = "#7f849c"
	colorTextTitle lipgloss.Color = "#cba6f7"
)

const clearScreen = "\033[H\033[2J"

var (
	titleStyle  = lipgloss.NewStyle().Foreground(colorTextTitle).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(colorTextDim)
	bannerStyle = lipgloss.NewStyle().Foreground(colorTextWin).Bold(true)
	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	itemStyle   = lipgloss.NewStyle().Width(16).Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(colorTextDim)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorTextDim).Padding(0, 1)
)

// Terminal writes a text view of each snapshot to an io.Writer. The view is
// only rewritten when it changes, so a steady stream of identical frames
// produces no output.
type Terminal struct {
	out   io.Writer
	clear bool
	last  string
}

// NewTerminal renders to out. With clear set the screen is cleared before
// each redraw.
func NewTerminal(out io.Writer, clear bool) *Terminal {
	return &Terminal{out: out, clear: clear}
}

// Render ignores the frame and prints the snapshot. It never asks to quit.
func (t *Terminal) Render(_ *gocv.Mat, snap app.Snapshot) bool {
	view := View(snap)
	if view == t.last {
		return true
	}
	t.last = view

	if t.clear {
		fmt.Fprint(t.out, clearScreen)
	}
	fmt.Fprintln(t.out, view)
	return true
}

// Close is a no-op.
func (t *Terminal) Close() error {
	return nil
}

// View renders snap as text.
func View(snap app.Snapshot) string {
	var body string
	switch snap.Mode {
	case mode.Menu:
		body = menuView(snap)
	case mode.Playing:
		body = boardView(snap)
	default:
		body = dimStyle.Render("bye")
	}

	lines := []string{titleStyle.Render("TIC TAC TOE"), body, cursorLine(snap)}
	if snap.Paused {
		lines = append(lines, dimStyle.Render("paused"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func menuView(snap app.Snapshot) string {
	items := make([]string, 0, len(cursor.DefaultMenu().Zones))
	for _, z := range cursor.DefaultMenu().Zones {
		style := itemStyle
		if hovered(snap, dwell.Menu(int(z.Item))) {
			style = style.BorderForeground(colorTextHover).Foreground(colorTextHover)
		}
		items = append(items, style.Render(z.Item.Label()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func boardView(snap app.Snapshot) string {
	winning := map[int]bool{}
	if snap.WinningTriple != nil {
		for _, c := range snap.WinningTriple {
			winning[c] = true
		}
	}

	rows := make([]string, 0, 2*cursor.GridSize-1)
	for r := 0; r < cursor.GridSize; r++ {
		cells := make([]string, 0, cursor.GridSize)
		for c := 0; c < cursor.GridSize; c++ {
			cell := r*cursor.GridSize + c
			cells = append(cells, cellView(snap, cell, winning[cell]))
		}
		rows = append(rows, strings.Join(cells, dimStyle.Render("│")))
		if r < cursor.GridSize-1 {
			rows = append(rows, dimStyle.Render("─────┼─────┼─────"))
		}
	}

	status := markStyle(snap.Current).Render("Turn: " + string(snap.Current))
	if banner := snap.Banner(); banner != "" {
		status = bannerStyle.Render(banner)
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)), status)
}

func cellView(snap app.Snapshot, cell int, winning bool) string {
	p := snap.Board[cell]
	switch {
	case p != game.Empty && winning:
		return cellStyle.Foreground(colorTextWin).Bold(true).Render(string(p))
	case p != game.Empty:
		return cellStyle.Inherit(markStyle(p)).Render(string(p))
	case hovered(snap, dwell.Cell(cell)):
		return cellStyle.Foreground(colorTextHover).Render("·")
	default:
		return cellStyle.Foreground(colorTextDim).Render(fmt.Sprint(cell))
	}
}

func cursorLine(snap app.Snapshot) string {
	parts := make([]string, 0, len(snap.Cursors))
	for _, c := range snap.Cursors {
		if !c.Visible {
			parts = append(parts, dimStyle.Render(string(c.Player)+": -"))
			continue
		}
		text := fmt.Sprintf("%s: %s", c.Player, c.Gesture)
		if c.Target != nil {
			text += fmt.Sprintf(" %s %3.0f%%", c.Target, c.Progress*100)
		}
		parts = append(parts, markStyle(c.Player).Render(text))
	}
	return strings.Join(parts, "   ")
}

func markStyle(p game.Player) lipgloss.Style {
	if p == game.O {
		return lipgloss.NewStyle().Foreground(colorTextO)
	}
	return lipgloss.NewStyle().Foreground(colorTextX)
}
