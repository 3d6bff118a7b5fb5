// Package controller owns the widget's view state and turns user events
// into layout and data changes.
package controller

import (
	"fmt"
	"math"
	"time"

	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/graph"
	"go.uber.org/zap"
)

// Bounds and step for the zoom buttons and spacing slider.
const (
	MinZoom    = 0.5
	MaxZoom    = 5.0
	ZoomStep   = 1.2
	MinSpacing = 50.0
	MaxSpacing = 200.0
)

// Cursor names.
const (
	CursorPointer = "pointer"
	CursorDefault = "default"
)

// BuildFunc produces the graph for a dataset choice.
type BuildFunc func(extended bool) (*graph.Graph, error)

// FromBuilder adapts a graph.Builder. Build warnings were already logged
// when the builder was created.
func FromBuilder(b *graph.Builder) BuildFunc {
	return func(extended bool) (*graph.Graph, error) {
		g, _ := b.Build(extended)
		return g, nil
	}
}

// Controller is single-threaded: every method must be called from the
// goroutine that drives Frame.
type Controller struct {
	view   ViewState
	graph  *graph.Graph
	build  BuildFunc
	engine Engine

	host       Host
	fullscreen Fullscreen
	native     bool
	simulated  bool

	cfg   config.ViewConfig
	clock func() time.Time
	log   *zap.Logger
	rec   Recorder

	tasks    queue
	mounted  bool
	done     bool
	unlisten []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig applies the view section and initial spacing of c.
func WithConfig(c *config.Config) Option {
	return func(ctl *Controller) {
		ctl.cfg = c.View
		ctl.view.ShowAllLabels = c.View.ShowAllLabels
		ctl.view.Spacing = clamp(c.Layout.Spacing, MinSpacing, MaxSpacing)
	}
}

// WithHost sets the embedding host.
func WithHost(h Host) Option {
	return func(c *Controller) { c.host = h }
}

// WithFullscreen sets the native fullscreen capability.
func WithFullscreen(f Fullscreen) Option {
	return func(c *Controller) { c.fullscreen = f }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.clock = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRecorder sets the activity recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.rec = r
		}
	}
}

// New returns a controller showing g, which must be the output of
// build(extended) for the extended flag it was built with.
func New(g *graph.Graph, eng Engine, build BuildFunc, opts ...Option) *Controller {
	def := config.Default()
	c := &Controller{
		graph:  g,
		build:  build,
		engine: eng,
		cfg:    def.View,
		clock:  time.Now,
		log:    zap.NewNop(),
		rec:    nopRecorder{},
		host:   &StaticHost{W: float64(def.Render.Width), H: float64(def.Render.Height)},
	}
	c.view = ViewState{
		ShowAllLabels: def.View.ShowAllLabels,
		Spacing:       def.Layout.Spacing,
		Zoom:          1,
		PanelTab:      TabConnections,
	}
	for _, o := range opts {
		o(c)
	}
	if g != nil {
		c.view.ShowExtended = g.Extended
	}
	if err := c.engine.SetForceParam("charge", -c.view.Spacing); err != nil {
		c.log.Warn("set spacing", zap.Error(err))
	}
	c.Resize()
	return c
}

// State returns a copy of the view state.
func (c *Controller) State() ViewState { return c.view }

// Graph returns the current graph generation.
func (c *Controller) Graph() *graph.Graph { return c.graph }

// Pending reports how many deferred tasks are queued.
func (c *Controller) Pending() int { return c.tasks.len() }

// Mounted reports whether host listeners are attached.
func (c *Controller) Mounted() bool { return c.mounted }

// SelectedNode returns the selected node, if any.
func (c *Controller) SelectedNode() (*graph.Node, bool) {
	if c.view.Selected == "" || c.graph == nil {
		return nil, false
	}
	return c.graph.Node(c.view.Selected)
}

// Click toggles selection of id. Selecting a node opens the detail panel;
// the camera never moves.
func (c *Controller) Click(id string) {
	c.rec.Interaction("click")
	if id == "" || c.graph == nil || !c.graph.Has(id) {
		return
	}
	if c.view.Selected == id {
		c.view.Selected = ""
		c.view.PanelOpen = false
		return
	}
	c.view.Selected = id
	c.view.PanelOpen = true
}

// Hover sets the hovered node. An empty or unknown id clears it.
func (c *Controller) Hover(id string) {
	if id != "" && (c.graph == nil || !c.graph.Has(id)) {
		id = ""
	}
	c.view.Hovered = id
}

// Cursor is the pointer style for the current hover state.
func (c *Controller) Cursor() string {
	if c.view.Hovered != "" {
		return CursorPointer
	}
	return CursorDefault
}

// SetSpacing clamps v, updates repulsion live and reheats.
func (c *Controller) SetSpacing(v float64) {
	c.rec.Interaction("spacing")
	v = clamp(v, MinSpacing, MaxSpacing)
	c.view.Spacing = v
	if err := c.engine.SetForceParam("charge", -v); err != nil {
		c.log.Warn("set spacing", zap.Error(err))
	}
	c.engine.Reheat()
}

// SetShowLabels sets the show-all-labels flag.
func (c *Controller) SetShowLabels(on bool) {
	c.rec.Interaction("labels")
	c.view.ShowAllLabels = on
}

// ToggleLabels flips the show-all-labels flag.
func (c *Controller) ToggleLabels() { c.SetShowLabels(!c.view.ShowAllLabels) }

// SetPanelTab switches the detail panel view.
func (c *Controller) SetPanelTab(t Tab) {
	if t == TabConnections || t == TabDetails {
		c.view.PanelTab = t
	}
}

// SetExtended rebuilds the graph with or without projects and experience.
// The current graph stays in place until the new one is complete. A failed
// build falls back to the base dataset; if that fails too the current graph
// is kept.
func (c *Controller) SetExtended(on bool) {
	c.rec.Interaction("extended")
	if c.graph != nil && c.graph.Extended == on {
		c.view.ShowExtended = on
		return
	}

	start := c.clock()
	g, err := c.safeBuild(on)
	c.rec.Rebuild(on, c.clock().Sub(start), err)
	if err != nil {
		c.log.Warn("rebuild failed, falling back to base dataset", zap.Bool("extended", on), zap.Error(err))
		g, err = c.safeBuild(false)
		if err != nil {
			c.log.Error("base dataset rebuild failed, keeping current graph", zap.Error(err))
			return
		}
	}

	c.graph = g
	c.view.ShowExtended = g.Extended
	c.engine.SetGraph(g)
	if c.view.Selected != "" && !g.Has(c.view.Selected) {
		c.view.Selected = ""
		c.view.PanelOpen = false
	}
	if c.view.Hovered != "" && !g.Has(c.view.Hovered) {
		c.view.Hovered = ""
	}
	c.after(c.settle(), c.engine.Reheat)
	c.log.Debug("graph rebuilt", zap.Bool("extended", g.Extended), zap.Int("nodes", len(g.Nodes)))
}

// ToggleExtended flips the dataset choice.
func (c *Controller) ToggleExtended() { c.SetExtended(!c.view.ShowExtended) }

func (c *Controller) safeBuild(extended bool) (g *graph.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("build panicked: %v", r)
		}
	}()
	g, err = c.build(extended)
	if err == nil && g == nil {
		err = fmt.Errorf("build returned no graph")
	}
	return g, err
}

// ZoomIn multiplies the zoom by one step, up to MaxZoom.
func (c *Controller) ZoomIn() {
	c.rec.Interaction("zoom_in")
	c.setZoom(math.Min(c.view.Zoom*ZoomStep, MaxZoom))
}

// ZoomOut divides the zoom by one step, down to MinZoom.
func (c *Controller) ZoomOut() {
	c.rec.Interaction("zoom_out")
	c.setZoom(math.Max(c.view.Zoom/ZoomStep, MinZoom))
}

func (c *Controller) setZoom(k float64) {
	c.view.Zoom = k
	c.engine.Zoom(k, c.ms(c.cfg.ZoomMS))
}

// ResetView recentres on the origin at zoom 1 and reheats.
func (c *Controller) ResetView() {
	c.rec.Interaction("reset")
	c.view.Zoom = 1
	c.engine.CenterAt(0, 0, c.ms(c.cfg.CenterMS))
	c.engine.Zoom(1, c.ms(c.cfg.ZoomMS))
	c.engine.Reheat()
}

// ToggleFullscreen enters or leaves fullscreen. Native fullscreen is used
// when the host offers it; otherwise, or when it fails, the container is
// sized to the viewport and background scroll is locked.
func (c *Controller) ToggleFullscreen() {
	c.rec.Interaction("fullscreen")
	if c.view.Fullscreen {
		c.exitFullscreen()
	} else {
		c.enterFullscreen()
	}
}

func (c *Controller) enterFullscreen() {
	if c.cfg.NativeFullscreen && c.fullscreen != nil && c.fullscreen.Available() {
		err := c.fullscreen.Enter()
		if err == nil {
			c.native = true
			c.view.Fullscreen = true
			c.after(c.settle(), func() {
				c.setSize(c.host.ContainerSize())
				c.engine.Reheat()
			})
			return
		}
		c.log.Warn("native fullscreen failed, simulating", zap.Error(err))
	}

	c.simulated = true
	c.view.Fullscreen = true
	c.host.LockScroll(true)
	c.after(c.settle(), func() {
		c.setSize(c.host.ViewportSize())
		c.engine.Reheat()
	})
}

func (c *Controller) exitFullscreen() {
	if c.native {
		if err := c.fullscreen.Exit(); err != nil {
			c.log.Warn("exit native fullscreen", zap.Error(err))
		}
		c.native = false
	}
	if c.simulated {
		c.host.LockScroll(false)
		c.simulated = false
	}
	c.view.Fullscreen = false
	c.after(c.settle(), func() {
		c.Resize()
		c.engine.Reheat()
	})
}

// Resize recomputes the surface size from the container width. It does
// nothing in fullscreen.
func (c *Controller) Resize() {
	if c.view.Fullscreen {
		return
	}
	w, _ := c.host.ContainerSize()
	c.setSize(w, math.Max(float64(c.cfg.MinHeight), w*c.cfg.HeightRatio))
}

func (c *Controller) setSize(w, h float64) {
	c.view.Width, c.view.Height = w, h
	c.engine.Resize(w, h)
}

// ClosePanel hides the panel and clears the selection.
func (c *Controller) ClosePanel() {
	c.view.PanelOpen = false
	c.view.Selected = ""
}

// Mount attaches host listeners. Mounting twice, or after Unmount, is a
// no-op.
func (c *Controller) Mount() {
	if c.mounted || c.done {
		return
	}
	c.mounted = true
	c.unlisten = append(c.unlisten, c.host.OnResize(c.Resize))
	if c.fullscreen != nil {
		c.unlisten = append(c.unlisten, c.fullscreen.OnChange(c.fullscreenChanged))
	}
	c.Resize()
}

// fullscreenChanged syncs the view when the host leaves native fullscreen
// without going through ToggleFullscreen.
func (c *Controller) fullscreenChanged(active bool) {
	if active || !c.native {
		return
	}
	c.native = false
	c.view.Fullscreen = false
	c.after(c.settle(), func() {
		c.Resize()
		c.engine.Reheat()
	})
}

// Unmount detaches every listener Mount attached, drops pending deferred
// work, stops camera transitions and leaves any fullscreen mode.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	for _, off := range c.unlisten {
		off()
	}
	c.unlisten = nil
	c.tasks.clear()
	c.engine.Stop()
	if c.native {
		if err := c.fullscreen.Exit(); err != nil {
			c.log.Warn("exit native fullscreen", zap.Error(err))
		}
		c.native = false
	}
	if c.simulated {
		c.host.LockScroll(false)
		c.simulated = false
	}
	c.view.Fullscreen = false
	c.mounted = false
	c.done = true
}

// Frame runs one cooperative step: due deferred tasks, then one layout
// tick and camera advance. It reports whether the simulation ticked.
func (c *Controller) Frame(now time.Time) bool {
	for _, fn := range c.tasks.due(now) {
		fn()
	}
	return c.engine.Step(now)
}

func (c *Controller) after(d time.Duration, fn func()) {
	c.tasks.add(c.clock().Add(d), fn)
}

func (c *Controller) settle() time.Duration { return c.ms(c.cfg.SettleDelayMS) }

func (c *Controller) ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
