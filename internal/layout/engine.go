package layout

import (
	"time"

	"github.com/msalah0e/skillgraph/internal/graph"
	"go.uber.org/zap"
)

// Engine pairs the simulation of the current graph generation with the
// camera that views it.
type Engine struct {
	sim  *Simulation
	cam  *Camera
	log  *zap.Logger
	opts []Option
}

// NewEngine creates an engine for g with a w×h viewport.
func NewEngine(g *graph.Graph, cfg Config, w, h float64, now Clock, opts ...Option) *Engine {
	e := &Engine{opts: opts, cam: NewCamera(w, h, now)}
	e.sim = New(g, cfg, opts...)
	e.log = e.sim.log
	return e
}

// Sim returns the current simulation.
func (e *Engine) Sim() *Simulation { return e.sim }

// Camera returns the camera.
func (e *Engine) Camera() *Camera { return e.cam }

// SetGraph swaps in a new graph generation, carrying over positions of
// nodes that survive, and restarts the simulation.
func (e *Engine) SetGraph(g *graph.Graph) {
	opts := append(append([]Option(nil), e.opts...), WithPrevious(e.sim))
	e.sim = New(g, e.sim.Config(), opts...)
	e.log.Debug("layout rebuilt", zap.Int("nodes", len(g.Nodes)), zap.Int("links", len(g.Links)))
}

// Reheat restarts the simulation energy.
func (e *Engine) Reheat() { e.sim.Reheat() }

// SetForceParam adjusts a force parameter on the live simulation.
func (e *Engine) SetForceParam(name string, v float64) error {
	return e.sim.SetForceParam(name, v)
}

// CenterAt pans the camera.
func (e *Engine) CenterAt(x, y float64, d time.Duration) { e.cam.CenterAt(x, y, d) }

// Zoom animates the camera zoom.
func (e *Engine) Zoom(k float64, d time.Duration) { e.cam.Zoom(k, d) }

// ZoomToFit frames the whole graph.
func (e *Engine) ZoomToFit(padding float64, d time.Duration) {
	e.cam.ZoomToFit(e.sim.Bounds(), padding, d)
}

// Resize changes the viewport size.
func (e *Engine) Resize(w, h float64) { e.cam.Resize(w, h) }

// Step ticks the simulation once if it is active and advances the camera.
// It reports whether the simulation ticked.
func (e *Engine) Step(now time.Time) bool {
	ticked := false
	if e.sim.Active() {
		e.sim.Tick()
		ticked = true
	}
	e.cam.Advance(now)
	return ticked
}

// Busy reports whether anything is still moving.
func (e *Engine) Busy() bool {
	return e.sim.Active() || e.cam.Animating()
}

// Stop abandons camera transitions.
func (e *Engine) Stop() { e.cam.Stop() }

// NodeAt hit-tests a screen point.
func (e *Engine) NodeAt(sx, sy float64) (string, bool) {
	x, y := e.cam.ToWorld(sx, sy)
	return e.sim.NodeAt(x, y, 4/e.cam.K)
}
