package layout

import (
	"math"
	"os"
	"testing"
	"time"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilder(t *testing.T) *graph.Builder {
	t.Helper()
	src, err := catalog.New(catalog.Document{
		Management:  []catalog.Entry{{Name: "Strategy", Projects: []string{"p1"}}, {Name: "Fundraising"}},
		Proficiency: []catalog.Entry{{Name: "3D printing"}},
		DevTech:     []catalog.Entry{{Name: "Docker"}, {Name: "Git"}},
		Project:     []catalog.Entry{{ID: "p1"}, {ID: "p2"}},
		Experience:  []catalog.Entry{{ID: "e1", Name: "Acme: CEO"}},
		Relationship: []catalog.Relationship{
			{Source: "strategy", Target: "docker"},
		},
	})
	require.NoError(t, err)
	return graph.NewBuilder(src)
}

func testGraph(t *testing.T, extended bool) *graph.Graph {
	g, _ := testBuilder(t).Build(extended)
	return g
}

func bundledGraph(t *testing.T) *graph.Graph {
	t.Helper()
	src, err := catalog.LoadFromFS(os.DirFS("../../catalog"), ".")
	require.NoError(t, err)
	g, _ := graph.NewBuilder(src).Build(true)
	return g
}

func meanPairDistance(s *Simulation) float64 {
	var sum float64
	n := 0
	for i, a := range s.Bodies() {
		for _, b := range s.Bodies()[i+1:] {
			sum += dist(a, b)
			n++
		}
	}
	return sum / float64(n)
}

func dist(a, b *Body) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestLinkDistanceByKind(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())

	for _, l := range s.links {
		sn, _ := s.g.Node(l.source.ID)
		tn, _ := s.g.Node(l.target.ID)
		if sn.Kind.IsCategory() || tn.Kind.IsCategory() {
			assert.Equal(t, 120.0, l.distance, "%s-%s", l.source.ID, l.target.ID)
		} else {
			assert.Equal(t, 80.0, l.distance, "%s-%s", l.source.ID, l.target.ID)
		}
		assert.Greater(t, l.strength, 0.0)
		assert.True(t, l.bias > 0 && l.bias < 1)
	}
}

func TestCollideRadius(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	for _, b := range s.Bodies() {
		assert.Equal(t, b.Size*2+30, b.Radius, b.ID)
	}
}

func TestCooldownStopsSimulation(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	require.True(t, s.Active())

	ran := s.Run(1000)
	assert.Equal(t, 100, ran)
	assert.False(t, s.Active())
	assert.False(t, s.Tick(), "settled simulation should not tick")
	assert.InDelta(t, math.Pow(0.98, 100), s.Alpha(), 1e-9)

	s.Reheat()
	assert.True(t, s.Active())
	assert.Equal(t, 1.0, s.Alpha())
	assert.Equal(t, 0, s.Ticks())
}

func TestAlphaDecayWithoutCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CooldownTicks = 0
	s := New(testGraph(t, false), cfg)

	ran := s.Run(1000)
	assert.InDelta(t, 342, ran, 2)
	assert.Less(t, s.Alpha(), cfg.AlphaMin)
}

func TestPositionsStayFinite(t *testing.T) {
	s := New(testGraph(t, true), DefaultConfig())
	s.Settle(300)
	for _, b := range s.Bodies() {
		assert.True(t, finite(b.X) && finite(b.Y), b.ID)
	}
	for i, a := range s.Bodies() {
		for _, b := range s.Bodies()[i+1:] {
			assert.Greater(t, dist(a, b), 1.0, "%s and %s coincide", a.ID, b.ID)
		}
	}
}

func TestSpacingSpreadsNodes(t *testing.T) {
	g := bundledGraph(t)

	settled := func(spacing float64) float64 {
		cfg := DefaultConfig()
		cfg.Spacing = spacing
		s := New(g, cfg, WithSeed(1))
		s.Settle(300)
		return meanPairDistance(s)
	}

	tight, loose := settled(50), settled(200)
	assert.Greater(t, loose, tight)
}

func TestSettledBodiesKeepCollisionDistance(t *testing.T) {
	s := New(bundledGraph(t), DefaultConfig())
	s.Settle(300)

	pairs, overlap := 0, 0
	for i, a := range s.Bodies() {
		for _, b := range s.Bodies()[i+1:] {
			pairs++
			if dist(a, b) < 0.8*(a.Radius+b.Radius) {
				overlap++
			}
		}
	}
	require.Positive(t, pairs)
	assert.Less(t, float64(overlap)/float64(pairs), 0.1, "%d of %d pairs overlap", overlap, pairs)
}

func TestCenteringKeepsCentroidNearOrigin(t *testing.T) {
	s := New(bundledGraph(t), DefaultConfig())
	s.Settle(300)

	var cx, cy float64
	for _, b := range s.Bodies() {
		cx += b.X
		cy += b.Y
	}
	n := float64(len(s.Bodies()))
	b := s.Bounds()
	extent := math.Max(b.Width(), b.Height())
	require.Positive(t, extent)
	assert.Less(t, math.Hypot(cx/n, cy/n), 0.05*extent)
}

func TestSeedingDeterministic(t *testing.T) {
	g := testGraph(t, false)
	a := New(g, DefaultConfig())
	b := New(g, DefaultConfig())
	a.Run(20)
	b.Run(20)
	for i := range a.Bodies() {
		assert.Equal(t, a.Bodies()[i].X, b.Bodies()[i].X)
		assert.Equal(t, a.Bodies()[i].Y, b.Bodies()[i].Y)
	}
}

func TestEadesSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = SeedEades
	s := New(testGraph(t, true), cfg)
	for _, b := range s.Bodies() {
		assert.True(t, finite(b.X) && finite(b.Y), b.ID)
	}
}

func TestCoincidentBodiesSeparate(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	a, _ := s.Body("docker")
	b, _ := s.Body("git")
	a.X, a.Y = 10, 10
	b.X, b.Y = 10, 10
	s.Run(5)
	assert.Greater(t, dist(a, b), 0.0)
}

func TestSetForceParam(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())

	require.NoError(t, s.SetForceParam("charge", -150))
	assert.Equal(t, 150.0, s.Config().Spacing)

	s.SetSpacing(60)
	assert.Equal(t, 60.0, s.Config().Spacing)

	require.NoError(t, s.SetForceParam("linkDistance", 40))
	for _, l := range s.links {
		sn, _ := s.g.Node(l.source.ID)
		if !sn.Kind.IsCategory() {
			assert.Equal(t, 40.0, l.distance)
		}
	}

	assert.Error(t, s.SetForceParam("gravity", 1))
}

func TestPinHoldsPosition(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	require.True(t, s.Pin("docker", 300, -40))
	s.Run(30)

	b, _ := s.Body("docker")
	assert.Equal(t, 300.0, b.X)
	assert.Equal(t, -40.0, b.Y)

	require.True(t, s.Unpin("docker"))
	assert.False(t, b.Pinned())
	assert.False(t, s.Pin("missing", 0, 0))
}

func TestPreviousPositionsCarryOver(t *testing.T) {
	b := testBuilder(t)
	base, _ := b.Build(false)
	ext, _ := b.Build(true)

	prev := New(base, DefaultConfig())
	prev.Run(40)
	prev.Pin("git", 5, 5)

	next := New(ext, DefaultConfig(), WithPrevious(prev))
	for _, pb := range prev.Bodies() {
		nb, ok := next.Body(pb.ID)
		require.True(t, ok, pb.ID)
		assert.Equal(t, pb.X, nb.X, pb.ID)
		assert.Equal(t, pb.Y, nb.Y, pb.ID)
	}
	git, _ := next.Body("git")
	assert.True(t, git.Pinned())

	hub, _ := next.Body("category:projects")
	p2, _ := next.Body("p2")
	assert.InDelta(t, 120, dist(hub, p2), 1e-6, "new members start one hub distance from their category")
}

func TestPositionUnknown(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	x, y, ok := s.Position("ghost")
	assert.False(t, ok)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestNodeAtAndBounds(t *testing.T) {
	s := New(testGraph(t, false), DefaultConfig())
	for i, b := range s.Bodies() {
		s.Pin(b.ID, float64(i)*1000, 0)
	}
	id, ok := s.NodeAt(1002, 1, 0)
	require.True(t, ok)
	assert.Equal(t, s.Bodies()[1].ID, id)

	_, ok = s.NodeAt(500, 500, 0)
	assert.False(t, ok)

	bb := s.Bounds()
	first, last := s.Bodies()[0], s.Bodies()[len(s.Bodies())-1]
	assert.Equal(t, -first.Size, bb.MinX)
	assert.Equal(t, last.X+last.Size, bb.MaxX)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestCameraTransitions(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	cam := NewCamera(800, 600, clk.Now)

	cam.CenterAt(100, -50, time.Second)
	assert.True(t, cam.Animating())

	clk.t = clk.t.Add(500 * time.Millisecond)
	cam.Advance(clk.t)
	assert.InDelta(t, 50, cam.X, 1e-9)
	assert.InDelta(t, -25, cam.Y, 1e-9)

	clk.t = clk.t.Add(500 * time.Millisecond)
	assert.False(t, cam.Advance(clk.t))
	assert.Equal(t, 100.0, cam.X)

	cam.Zoom(2, 0)
	assert.Equal(t, 2.0, cam.K)

	cam.Zoom(4, 800*time.Millisecond)
	cam.Stop()
	assert.False(t, cam.Animating())
	cam.CenterAt(0, 0, 0)
	assert.Equal(t, 100.0, cam.X, "stopped camera ignores new transitions")
}

func TestCameraZoomToFit(t *testing.T) {
	cam := NewCamera(300, 300, nil)
	cam.ZoomToFit(Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}, 50, 0)
	assert.Equal(t, 2.0, cam.K)
	assert.Equal(t, 50.0, cam.X)
	assert.Equal(t, 25.0, cam.Y)
}

func TestCameraRoundTrip(t *testing.T) {
	cam := NewCamera(640, 480, nil)
	cam.X, cam.Y, cam.K = 30, -20, 1.7
	sx, sy := cam.ToScreen(12, 34)
	x, y := cam.ToWorld(sx, sy)
	assert.InDelta(t, 12, x, 1e-9)
	assert.InDelta(t, 34, y, 1e-9)

	sx, sy = cam.ToScreen(cam.X, cam.Y)
	assert.Equal(t, 320.0, sx)
	assert.Equal(t, 240.0, sy)
}

func TestEngineRebuild(t *testing.T) {
	b := testBuilder(t)
	base, _ := b.Build(false)
	ext, _ := b.Build(true)

	clk := &fakeClock{t: time.Unix(0, 0)}
	e := NewEngine(base, DefaultConfig(), 800, 600, clk.Now)
	for i := 0; i < 10; i++ {
		assert.True(t, e.Step(clk.t))
	}
	docker, _ := e.Sim().Body("docker")
	x, y := docker.X, docker.Y

	e.SetGraph(ext)
	assert.Same(t, ext, e.Sim().Graph())
	nd, _ := e.Sim().Body("docker")
	assert.Equal(t, x, nd.X)
	assert.Equal(t, y, nd.Y)
	assert.Equal(t, 1.0, e.Sim().Alpha())

	require.NoError(t, e.SetForceParam("charge", -80))
	assert.Equal(t, 80.0, e.Sim().Config().Spacing)
	assert.True(t, e.Busy())
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.Default().Layout)
	assert.Equal(t, 125.0, cfg.Spacing)
	assert.Equal(t, 0.9, cfg.Theta)
	assert.Equal(t, 0.001, cfg.AlphaMin)
}
