package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/msalah0e/skillgraph/internal/render"
)

// termHost reports the canvas area in screen units and forwards terminal
// resizes to the controller.
type termHost struct {
	cols, rows   int // canvas area
	tcols, trows int // whole terminal
	listeners    map[int]func()
	next         int
	locked       bool
}

func newTermHost() *termHost {
	return &termHost{cols: 80, rows: 24, tcols: 80, trows: 24, listeners: make(map[int]func())}
}

func (h *termHost) ContainerSize() (float64, float64) {
	return float64(h.cols) * render.CellW, float64(h.rows) * render.CellH
}

func (h *termHost) ViewportSize() (float64, float64) {
	return float64(h.tcols) * render.CellW, float64(h.trows) * render.CellH
}

func (h *termHost) OnResize(fn func()) func() {
	id := h.next
	h.next++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

func (h *termHost) LockScroll(locked bool) { h.locked = locked }

func (h *termHost) resize(cols, rows, tcols, trows int) {
	h.cols, h.rows, h.tcols, h.trows = cols, rows, tcols, trows
	for _, fn := range h.listeners {
		fn()
	}
}

// altScreen is native fullscreen for a terminal: the alternate screen
// buffer. It queues the bubbletea commands for the model to emit.
type altScreen struct {
	tty     bool
	pending []tea.Cmd
}

func newAltScreen() *altScreen {
	fd := os.Stdout.Fd()
	return &altScreen{tty: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (a *altScreen) Available() bool { return a.tty }

func (a *altScreen) Enter() error {
	a.pending = append(a.pending, tea.EnterAltScreen)
	return nil
}

func (a *altScreen) Exit() error {
	a.pending = append(a.pending, tea.ExitAltScreen)
	return nil
}

// OnChange is a no-op: the terminal never drops the alternate screen by
// itself while the program runs.
func (a *altScreen) OnChange(func(bool)) func() { return func() {} }

func (a *altScreen) drain() []tea.Cmd {
	out := a.pending
	a.pending = nil
	return out
}
