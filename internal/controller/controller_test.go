package controller

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type call struct {
	x, y, k float64
	d       time.Duration
}

type fakeEngine struct {
	graphs  []*graph.Graph
	reheats int
	params  map[string]float64
	centers []call
	zooms   []call
	w, h    float64
	steps   int
	stopped bool
}

func newFakeEngine() *fakeEngine { return &fakeEngine{params: make(map[string]float64)} }

func (e *fakeEngine) SetGraph(g *graph.Graph) { e.graphs = append(e.graphs, g) }
func (e *fakeEngine) Reheat() { e.reheats++ }
func (e *fakeEngine) SetForceParam(name string, v float64) error {
	e.params[name] = v
	return nil
}
func (e *fakeEngine) CenterAt(x, y float64, d time.Duration) {
	e.centers = append(e.centers, call{x: x, y: y, d: d})
}
func (e *fakeEngine) Zoom(k float64, d time.Duration) { e.zooms = append(e.zooms, call{k: k, d: d}) }
func (e *fakeEngine) Resize(w, h float64) { e.w, e.h = w, h }
func (e *fakeEngine) Step(time.Time) bool { e.steps++; return true }
func (e *fakeEngine) Stop() { e.stopped = true }

type fakeHost struct {
	StaticHost
	listeners map[int]func()
	next      int
}

func newFakeHost(w, h float64) *fakeHost {
	return &fakeHost{StaticHost: StaticHost{W: w, H: h, VW: 1920, VH: 1080}, listeners: make(map[int]func())}
}

func (h *fakeHost) OnResize(fn func()) func() {
	id := h.next
	h.next++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

func (h *fakeHost) fire() {
	for _, fn := range h.listeners {
		fn()
	}
}

type fakeFullscreen struct {
	available bool
	enterErr  error
	entered   int
	exited    int
	listeners []func(bool)
}

func (f *fakeFullscreen) Available() bool { return f.available }
func (f *fakeFullscreen) Enter() error {
	if f.enterErr != nil {
		return f.enterErr
	}
	f.entered++
	return nil
}
func (f *fakeFullscreen) Exit() error { f.exited++; return nil }

func (f *fakeFullscreen) OnChange(fn func(bool)) func() {
	f.listeners = append(f.listeners, fn)
	i := len(f.listeners) - 1
	return func() { f.listeners[i] = nil }
}

// leave simulates the host dropping fullscreen on its own.
func (f *fakeFullscreen) leave() {
	for _, fn := range f.listeners {
		if fn != nil {
			fn(false)
		}
	}
}

type fakeClock struct { t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testBuilder(t *testing.T) *graph.Builder {
	t.Helper()
	src, err := catalog.New(catalog.Document{
		Management:   []catalog.Entry{{Name: "Skill A", Projects: []string{"p1"}}, {Name: "Skill B"}},
		DevTech:      []catalog.Entry{{Name: "Tool X"}},
		Project:      []catalog.Entry{{ID: "p1"}},
		Experience:   []catalog.Entry{{ID: "e1", Name: "Acme: Founder"}},
		Relationship: []catalog.Relationship{{Source: "skill-a", Target: "tool-x"}},
	})
	require.NoError(t, err)
	return graph.NewBuilder(src)
}

type harness struct {
	ctl   *Controller
	eng   *fakeEngine
	host  *fakeHost
	fs    *fakeFullscreen
	clock *fakeClock
}

func newHarness(t *testing.T, build BuildFunc, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		eng:   newFakeEngine(),
		host:  newFakeHost(1000, 500),
		fs:    &fakeFullscreen{available: true},
		clock: &fakeClock{t: time.Unix(1000, 0)},
	}
	if build == nil {
		build = FromBuilder(testBuilder(t))
	}
	g, err := build(false)
	require.NoError(t, err)
	base := []Option{WithHost(h.host), WithFullscreen(h.fs), WithClock(h.clock.Now)}
	h.ctl = New(g, h.eng, build, append(base, opts...)...)
	return h
}

// settle advances past the settle delay and runs one frame.
func (h *harness) settle() {
	h.clock.Advance(100 * time.Millisecond)
	h.ctl.Frame(h.clock.Now())
}

func TestNewDefaults(t *testing.T) {
	h := newHarness(t, nil)
	v := h.ctl.State()

	assert.Equal(t, 1.0, v.Zoom)
	assert.Equal(t, 125.0, v.Spacing)
	assert.True(t, v.ShowAllLabels)
	assert.False(t, v.ShowExtended)
	assert.Equal(t, TabConnections, v.PanelTab)
	assert.Equal(t, -125.0, h.eng.params["charge"])
	assert.Equal(t, 1000.0, v.Width)
	assert.Equal(t, 600.0, v.Height)
}

func TestClickTogglesSelection(t *testing.T) {
	h := newHarness(t, nil)

	h.ctl.Click("skill-a")
	v := h.ctl.State()
	assert.Equal(t, "skill-a", v.Selected)
	assert.True(t, v.PanelOpen)

	h.ctl.Click("tool-x")
	assert.Equal(t, "tool-x", h.ctl.State().Selected)

	h.ctl.Click("tool-x")
	v = h.ctl.State()
	assert.Empty(t, v.Selected)
	assert.False(t, v.PanelOpen)

	assert.Empty(t, h.eng.centers, "selection must not move the camera")
	assert.Empty(t, h.eng.zooms)
}

func TestClickUnknownIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Click("skill-a")
	h.ctl.Click("ghost")
	assert.Equal(t, "skill-a", h.ctl.State().Selected)
}

func TestHoverCursor(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, CursorDefault, h.ctl.Cursor())

	h.ctl.Hover("tool-x")
	assert.Equal(t, "tool-x", h.ctl.State().Hovered)
	assert.Equal(t, CursorPointer, h.ctl.Cursor())

	h.ctl.Hover("")
	assert.Equal(t, CursorDefault, h.ctl.Cursor())

	h.ctl.Hover("ghost")
	assert.Empty(t, h.ctl.State().Hovered)
}

func TestSetSpacing(t *testing.T) {
	tests := map[string]struct {
		in, want float64
	}{
		"in range":  {in: 150, want: 150},
		"too low":   {in: 10, want: 50},
		"too high":  {in: 500, want: 200},
		"nan":       {in: math.NaN(), want: 50},
		"lower end": {in: 50, want: 50},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil)
			before := h.eng.reheats
			h.ctl.SetSpacing(tc.in)
			assert.Equal(t, tc.want, h.ctl.State().Spacing)
			assert.Equal(t, -tc.want, h.eng.params["charge"])
			assert.Equal(t, before+1, h.eng.reheats)
		})
	}
}

func TestLabels(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.SetShowLabels(false)
	assert.False(t, h.ctl.State().ShowAllLabels)
	h.ctl.ToggleLabels()
	assert.True(t, h.ctl.State().ShowAllLabels)
}

func TestZoomBounds(t *testing.T) {
	h := newHarness(t, nil)

	h.ctl.ZoomIn()
	assert.InDelta(t, 1.2, h.ctl.State().Zoom, 1e-9)
	require.Len(t, h.eng.zooms, 1)
	assert.Equal(t, 800*time.Millisecond, h.eng.zooms[0].d)

	for i := 0; i < 20; i++ {
		h.ctl.ZoomIn()
	}
	assert.Equal(t, MaxZoom, h.ctl.State().Zoom)

	for i := 0; i < 40; i++ {
		h.ctl.ZoomOut()
	}
	assert.Equal(t, MinZoom, h.ctl.State().Zoom)
	for _, z := range h.eng.zooms {
		assert.GreaterOrEqual(t, z.k, MinZoom)
		assert.LessOrEqual(t, z.k, MaxZoom)
	}
}

func TestResetView(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.ZoomIn()
	h.ctl.ZoomIn()
	reheats := h.eng.reheats

	h.ctl.ResetView()

	assert.Equal(t, 1.0, h.ctl.State().Zoom)
	require.Len(t, h.eng.centers, 1)
	assert.Equal(t, call{x: 0, y: 0, d: time.Second}, h.eng.centers[0])
	last := h.eng.zooms[len(h.eng.zooms)-1]
	assert.Equal(t, 1.0, last.k)
	assert.Equal(t, 800*time.Millisecond, last.d)
	assert.Equal(t, reheats+1, h.eng.reheats)
}

func TestSetExtendedRebuilds(t *testing.T) {
	h := newHarness(t, nil)

	h.ctl.SetExtended(true)
	require.Len(t, h.eng.graphs, 1)
	assert.True(t, h.ctl.Graph().Extended)
	assert.True(t, h.ctl.State().ShowExtended)
	assert.True(t, h.ctl.Graph().Has("p1"))

	reheats := h.eng.reheats
	h.ctl.Frame(h.clock.Now())
	assert.Equal(t, reheats, h.eng.reheats, "reheat waits for the settle delay")
	h.settle()
	assert.Equal(t, reheats+1, h.eng.reheats)

	h.ctl.Click("p1")
	h.ctl.Hover("p1")
	h.ctl.SetExtended(false)
	v := h.ctl.State()
	assert.Empty(t, v.Selected, "selection of a vanished node is cleared")
	assert.Empty(t, v.Hovered)
	assert.False(t, v.PanelOpen)
	assert.False(t, h.ctl.Graph().Has("p1"))
}

func TestSetExtendedKeepsSurvivingSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Click("skill-a")
	h.ctl.SetExtended(true)
	assert.Equal(t, "skill-a", h.ctl.State().Selected)
	assert.True(t, h.ctl.State().PanelOpen)
}

func TestSetExtendedSameChoiceIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.SetExtended(false)
	assert.Empty(t, h.eng.graphs)
	assert.Zero(t, h.ctl.Pending())
}

func TestSetExtendedFallsBackToBase(t *testing.T) {
	b := testBuilder(t)
	tests := map[string]BuildFunc{
		"error": func(extended bool) (*graph.Graph, error) {
			if extended {
				return nil, errors.New("boom")
			}
			g, _ := b.Build(false)
			return g, nil
		},
		"panic": func(extended bool) (*graph.Graph, error) {
			if extended {
				panic("boom")
			}
			g, _ := b.Build(false)
			return g, nil
		},
		"nil graph": func(extended bool) (*graph.Graph, error) {
			if extended {
				return nil, nil
			}
			g, _ := b.Build(false)
			return g, nil
		},
	}
	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			h := newHarness(t, build, WithLogger(zap.New(core)))

			h.ctl.SetExtended(true)

			require.Len(t, h.eng.graphs, 1)
			assert.False(t, h.ctl.Graph().Extended)
			assert.False(t, h.ctl.State().ShowExtended)
			assert.Equal(t, 1, logs.FilterMessage("rebuild failed, falling back to base dataset").Len())
		})
	}
}

func TestSetExtendedKeepsGraphWhenBaseFails(t *testing.T) {
	b := testBuilder(t)
	g, _ := b.Build(false)
	calls := 0
	build := func(extended bool) (*graph.Graph, error) {
		calls++
		if calls == 1 {
			return g, nil
		}
		return nil, errors.New("catalog gone")
	}
	h := newHarness(t, build)

	h.ctl.SetExtended(true)

	assert.Same(t, g, h.ctl.Graph())
	assert.Empty(t, h.eng.graphs)
	assert.Zero(t, h.ctl.Pending())
}

func TestFullscreenNative(t *testing.T) {
	h := newHarness(t, nil)
	h.host.W, h.host.H = 1000, 500

	h.ctl.ToggleFullscreen()
	assert.True(t, h.ctl.State().Fullscreen)
	assert.Equal(t, 1, h.fs.entered)
	assert.False(t, h.host.ScrollLocked)

	// Native fullscreen grows the container itself.
	h.host.W, h.host.H = 1920, 1080
	reheats := h.eng.reheats
	h.settle()
	assert.Equal(t, 1920.0, h.ctl.State().Width)
	assert.Equal(t, 1080.0, h.ctl.State().Height)
	assert.Equal(t, reheats+1, h.eng.reheats)

	h.host.W, h.host.H = 1000, 500
	h.ctl.ToggleFullscreen()
	assert.False(t, h.ctl.State().Fullscreen)
	assert.Equal(t, 1, h.fs.exited)
	h.settle()
	assert.Equal(t, 1000.0, h.ctl.State().Width)
	assert.Equal(t, 600.0, h.ctl.State().Height)
}

func TestFullscreenSimulated(t *testing.T) {
	tests := map[string]*fakeFullscreen{
		"unavailable": {available: false},
		"enter error": {available: true, enterErr: errors.New("denied")},
	}
	for name, fs := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil, WithFullscreen(fs))

			h.ctl.ToggleFullscreen()
			assert.True(t, h.ctl.State().Fullscreen)
			assert.True(t, h.host.ScrollLocked)
			assert.Zero(t, fs.entered)

			h.settle()
			assert.Equal(t, 1920.0, h.ctl.State().Width)
			assert.Equal(t, 1080.0, h.ctl.State().Height)
			assert.Equal(t, 1920.0, h.eng.w)

			h.ctl.ToggleFullscreen()
			assert.False(t, h.ctl.State().Fullscreen)
			assert.False(t, h.host.ScrollLocked)
			assert.Zero(t, fs.exited)
			h.settle()
			assert.Equal(t, 1000.0, h.ctl.State().Width)
		})
	}
}

func TestFullscreenNativeDisabledByConfig(t *testing.T) {
	cfg := config.Default()
	cfg.View.NativeFullscreen = false
	h := newHarness(t, nil, WithConfig(cfg))

	h.ctl.ToggleFullscreen()
	assert.Zero(t, h.fs.entered)
	assert.True(t, h.host.ScrollLocked)
}

func TestResize(t *testing.T) {
	tests := map[string]struct {
		width, wantH float64
	}{
		"floor":        {width: 800, wantH: 600},
		"proportional": {width: 1500, wantH: 900},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.host.W = tc.width
			h.ctl.Resize()
			assert.Equal(t, tc.width, h.ctl.State().Width)
			assert.Equal(t, tc.wantH, h.ctl.State().Height)
			assert.Equal(t, tc.wantH, h.eng.h)
		})
	}
}

func TestResizeIgnoredInFullscreen(t *testing.T) {
	h := newHarness(t, nil, WithFullscreen(nil))
	h.ctl.ToggleFullscreen()
	h.settle()

	h.host.W = 400
	h.ctl.Resize()
	assert.Equal(t, 1920.0, h.ctl.State().Width)
}

func TestClosePanel(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Click("skill-a")
	h.ctl.ClosePanel()
	v := h.ctl.State()
	assert.False(t, v.PanelOpen)
	assert.Empty(t, v.Selected)
}

func TestPanelTab(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.SetPanelTab(TabDetails)
	assert.Equal(t, TabDetails, h.ctl.State().PanelTab)
	h.ctl.SetPanelTab("bogus")
	assert.Equal(t, TabDetails, h.ctl.State().PanelTab)
}

func TestMountUnmount(t *testing.T) {
	h := newHarness(t, nil, WithFullscreen(nil))

	h.ctl.Mount()
	h.ctl.Mount()
	assert.Len(t, h.host.listeners, 1)

	h.host.W = 1500
	h.host.fire()
	assert.Equal(t, 1500.0, h.ctl.State().Width)

	h.ctl.ToggleFullscreen()
	require.Equal(t, 1, h.ctl.Pending())

	h.ctl.Unmount()
	assert.Empty(t, h.host.listeners)
	assert.Zero(t, h.ctl.Pending())
	assert.True(t, h.eng.stopped)
	assert.False(t, h.host.ScrollLocked)
	assert.False(t, h.ctl.Mounted())

	h.ctl.Mount()
	assert.Empty(t, h.host.listeners, "an unmounted controller stays detached")
}

func TestUnmountLeavesNativeFullscreen(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Mount()
	h.ctl.ToggleFullscreen()
	require.Equal(t, 1, h.fs.entered)

	h.ctl.Unmount()
	assert.Equal(t, 1, h.fs.exited)
	assert.False(t, h.ctl.State().Fullscreen)
	assert.False(t, h.ctl.native)
}

func TestHostLeavesNativeFullscreen(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Mount()
	h.ctl.ToggleFullscreen()
	h.host.W, h.host.H = 1920, 1080
	h.settle()

	h.host.W, h.host.H = 1000, 500
	reheats := h.eng.reheats
	h.fs.leave()
	assert.False(t, h.ctl.State().Fullscreen)
	assert.Zero(t, h.fs.exited, "the host already left")
	h.settle()
	assert.Equal(t, 1000.0, h.ctl.State().Width)
	assert.Equal(t, 600.0, h.ctl.State().Height)
	assert.Equal(t, reheats+1, h.eng.reheats)

	// A later toggle enters again rather than exiting.
	h.ctl.ToggleFullscreen()
	assert.Equal(t, 2, h.fs.entered)
}

func TestUnmountDetachesFullscreenListener(t *testing.T) {
	h := newHarness(t, nil)
	h.ctl.Mount()
	h.ctl.ToggleFullscreen()
	h.ctl.Unmount()

	h.fs.leave()
	assert.Zero(t, h.ctl.Pending())
	for _, fn := range h.fs.listeners {
		assert.Nil(t, fn)
	}
}

func TestFrameRunsDueTasksInOrder(t *testing.T) {
	h := newHarness(t, nil)
	var got []int
	h.ctl.after(50*time.Millisecond, func() { got = append(got, 2) })
	h.ctl.after(10*time.Millisecond, func() { got = append(got, 1) })
	h.ctl.after(10*time.Millisecond, func() { got = append(got, 11) })
	h.ctl.after(time.Second, func() { got = append(got, 3) })

	h.clock.Advance(60 * time.Millisecond)
	assert.True(t, h.ctl.Frame(h.clock.Now()))
	assert.Equal(t, []int{1, 11, 2}, got)
	assert.Equal(t, 1, h.ctl.Pending())
	assert.Equal(t, 1, h.eng.steps)
}

func TestWithLayoutEngine(t *testing.T) {
	b := testBuilder(t)
	g, _ := b.Build(false)
	clock := &fakeClock{t: time.Unix(0, 0)}
	eng := layout.NewEngine(g, layout.DefaultConfig(), 1000, 600, clock.Now)
	ctl := New(g, eng, FromBuilder(b), WithClock(clock.Now))

	ctl.SetExtended(true)
	for i := 0; i < 200; i++ {
		clock.Advance(16 * time.Millisecond)
		ctl.Frame(clock.Now())
	}

	assert.False(t, eng.Busy())
	for _, n := range ctl.Graph().Nodes {
		x, y, ok := eng.Sim().Position(n.ID)
		require.True(t, ok, n.ID)
		assert.False(t, math.IsNaN(x) || math.IsNaN(y), n.ID)
	}
}
