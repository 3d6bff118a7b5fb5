package controller

import (
	"errors"
	"time"

	"github.com/msalah0e/skillgraph/internal/graph"
)

// ErrFullscreenUnavailable is returned by a Fullscreen that cannot enter
// native mode on this host.
var ErrFullscreenUnavailable = errors.New("native fullscreen unavailable")

// Engine is the part of the layout engine the controller drives.
type Engine interface {
	SetGraph(g *graph.Graph)
	Reheat()
	SetForceParam(name string, v float64) error
	CenterAt(x, y float64, d time.Duration)
	Zoom(k float64, d time.Duration)
	Resize(w, h float64)
	Step(now time.Time) bool
	Stop()
}

// Host is the page or terminal embedding the widget.
type Host interface {
	// ContainerSize is the current size of the widget's container.
	ContainerSize() (w, h float64)
	// ViewportSize is the size of the whole visible screen.
	ViewportSize() (w, h float64)
	// OnResize registers fn for host resize events and returns the
	// function that unregisters it.
	OnResize(fn func()) (remove func())
	// LockScroll suppresses background scrolling while the widget is in
	// simulated fullscreen.
	LockScroll(locked bool)
}

// Fullscreen is the host's native fullscreen capability.
type Fullscreen interface {
	Available() bool
	Enter() error
	Exit() error
	// OnChange registers fn for fullscreen changes the host makes on its
	// own, such as the user pressing Escape, and returns the function
	// that unregisters it.
	OnChange(fn func(active bool)) (remove func())
}

// Recorder observes controller activity. metrics.Metrics implements it.
type Recorder interface {
	Interaction(action string)
	Rebuild(extended bool, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) Interaction(string) {}
func (nopRecorder) Rebuild(bool, time.Duration, error) {}

// StaticHost is a fixed-size host with no resize events, used for
// snapshots and tests.
type StaticHost struct {
	W, H         float64
	VW, VH       float64
	ScrollLocked bool
}

func (h *StaticHost) ContainerSize() (float64, float64) { return h.W, h.H }

func (h *StaticHost) ViewportSize() (float64, float64) {
	if h.VW == 0 && h.VH == 0 {
		return h.W, h.H
	}
	return h.VW, h.VH
}

func (h *StaticHost) OnResize(func()) func() { return func() {} }

func (h *StaticHost) LockScroll(locked bool) { h.ScrollLocked = locked }
