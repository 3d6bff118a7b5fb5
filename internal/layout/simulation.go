package layout

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/msalah0e/skillgraph/internal/graph"
	"go.uber.org/zap"
)

// Simulation is a velocity-Verlet force simulation over one graph
// generation. It is not safe for concurrent use; hosts drive it from a
// single goroutine, one Tick per frame.
type Simulation struct {
	cfg    Config
	g      *graph.Graph
	bodies []*Body
	byID   map[string]*Body
	links  []simLink
	alpha  float64
	ticks  int
	rng    *rand.Rand
	log    *zap.Logger
	prev   *Simulation
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPrevious seeds bodies that also exist in prev at their previous
// positions, so a rebuilt graph does not jump.
func WithPrevious(prev *Simulation) Option {
	return func(s *Simulation) { s.prev = prev }
}

// WithSeed sets the random source used for jitter.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewSource(seed)) }
}

// New creates a simulation for g with alpha at 1.
func New(g *graph.Graph, cfg Config, opts ...Option) *Simulation {
	s := &Simulation{
		cfg:   cfg.withDefaults(),
		g:     g,
		byID:  make(map[string]*Body, len(g.Nodes)),
		alpha: 1,
		rng:   rand.New(rand.NewSource(42)),
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	for i, n := range g.Nodes {
		b := &Body{
			ID:     n.ID,
			X:      math.NaN(),
			Y:      math.NaN(),
			Size:   n.Size,
			Radius: n.Size*s.cfg.CollideScale + s.cfg.CollidePadding,
			index:  i,
		}
		s.bodies = append(s.bodies, b)
		s.byID[n.ID] = b
	}
	s.buildLinks()
	s.seed()
	s.prev = nil
	return s
}

func (s *Simulation) buildLinks() {
	degree := make(map[*Body]int)
	for _, l := range s.g.Links {
		src, tgt := s.byID[l.Source], s.byID[l.Target]
		if src == nil || tgt == nil {
			s.log.Debug("link with unresolved endpoint ignored by layout",
				zap.String("source", l.Source), zap.String("target", l.Target))
			continue
		}
		degree[src]++
		degree[tgt]++
		s.links = append(s.links, simLink{source: src, target: tgt})
	}
	for i := range s.links {
		l := &s.links[i]
		ds, dt := float64(degree[l.source]), float64(degree[l.target])
		l.strength = 1 / math.Min(ds, dt)
		l.bias = ds / (ds + dt)
		l.distance = s.linkDistance(l.source.ID, l.target.ID)
	}
}

// linkDistance is the hub distance when either endpoint is a category node.
func (s *Simulation) linkDistance(source, target string) float64 {
	sn, _ := s.g.Node(source)
	tn, _ := s.g.Node(target)
	if (sn != nil && sn.Kind.IsCategory()) || (tn != nil && tn.Kind.IsCategory()) {
		return s.cfg.HubLinkDistance
	}
	return s.cfg.LinkDistance
}

// Graph returns the graph generation this simulation lays out.
func (s *Simulation) Graph() *graph.Graph { return s.g }

// Config returns the active tuning.
func (s *Simulation) Config() Config { return s.cfg }

// Alpha returns the current simulation energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Ticks returns the number of ticks since the last reheat.
func (s *Simulation) Ticks() int { return s.ticks }

// Active reports whether further ticks will move anything.
func (s *Simulation) Active() bool {
	if s.cfg.CooldownTicks > 0 && s.ticks >= s.cfg.CooldownTicks {
		return false
	}
	return s.alpha >= s.cfg.AlphaMin
}

// Reheat restores full energy and restarts the cooldown.
func (s *Simulation) Reheat() {
	s.alpha = 1
	s.ticks = 0
}

// SetSpacing changes the repulsion magnitude live.
func (s *Simulation) SetSpacing(v float64) {
	s.cfg.Spacing = v
}

// SetForceParam adjusts one force parameter by name. "charge" takes the
// signed many-body strength, so SetForceParam("charge", -150) equals
// SetSpacing(150).
func (s *Simulation) SetForceParam(name string, v float64) error {
	switch name {
	case "charge":
		s.cfg.Spacing = -v
	case "center":
		s.cfg.CenterStrength = v
	case "alphaDecay":
		s.cfg.AlphaDecay = v
	case "velocityDecay":
		s.cfg.VelocityDecay = v
	case "linkDistance":
		s.cfg.LinkDistance = v
		s.refreshDistances()
	case "hubLinkDistance":
		s.cfg.HubLinkDistance = v
		s.refreshDistances()
	default:
		return fmt.Errorf("unknown force parameter %q", name)
	}
	return nil
}

func (s *Simulation) refreshDistances() {
	for i := range s.links {
		s.links[i].distance = s.linkDistance(s.links[i].source.ID, s.links[i].target.ID)
	}
}

// Tick advances the simulation one step and reports whether it is still
// active. Ticking a settled simulation does nothing.
func (s *Simulation) Tick() bool {
	if !s.Active() {
		return false
	}
	s.alpha += (s.cfg.AlphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks(s.alpha)
	s.applyCharge(s.alpha)
	s.applyCenter()
	s.applyCollide()

	for _, b := range s.bodies {
		if b.FX != nil {
			b.X, b.VX = *b.FX, 0
		} else {
			b.VX *= 1 - s.cfg.VelocityDecay
			b.X += b.VX
		}
		if b.FY != nil {
			b.Y, b.VY = *b.FY, 0
		} else {
			b.VY *= 1 - s.cfg.VelocityDecay
			b.Y += b.VY
		}
		if !finite(b.X) || !finite(b.Y) {
			s.log.Warn("non-finite body position reset", zap.String("id", b.ID))
			b.X, b.Y = s.jiggle()*1e6, s.jiggle()*1e6
			b.VX, b.VY = 0, 0
		}
	}
	s.ticks++
	return s.Active()
}

// Run ticks up to n times, stopping early once settled, and returns the
// number of ticks taken.
func (s *Simulation) Run(n int) int {
	i := 0
	for ; i < n && s.Active(); i++ {
		s.Tick()
	}
	return i
}

// Settle reheats and runs until inactive or n ticks, ignoring the cooldown.
func (s *Simulation) Settle(n int) int {
	cooldown := s.cfg.CooldownTicks
	s.cfg.CooldownTicks = 0
	s.Reheat()
	ran := s.Run(n)
	s.cfg.CooldownTicks = cooldown
	s.ticks = cooldown
	return ran
}

// Body returns the body for id.
func (s *Simulation) Body(id string) (*Body, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Bodies returns all bodies in graph order.
func (s *Simulation) Bodies() []*Body { return s.bodies }

// Position returns the position of id, or the origin when it is unknown.
func (s *Simulation) Position(id string) (x, y float64, ok bool) {
	b, ok := s.byID[id]
	if !ok {
		return 0, 0, false
	}
	return b.X, b.Y, true
}

// Pin fixes a body at (x, y).
func (s *Simulation) Pin(id string, x, y float64) bool {
	b, ok := s.byID[id]
	if !ok {
		return false
	}
	b.FX, b.FY = &x, &y
	b.X, b.Y = x, y
	return true
}

// Unpin releases a pinned body.
func (s *Simulation) Unpin(id string) bool {
	b, ok := s.byID[id]
	if !ok {
		return false
	}
	b.FX, b.FY = nil, nil
	return true
}

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width of the rectangle.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the rectangle.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center of the rectangle.
func (b Bounds) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Bounds returns the extent of all drawn node circles.
func (s *Simulation) Bounds() Bounds {
	if len(s.bodies) == 0 {
		return Bounds{}
	}
	bb := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, b := range s.bodies {
		bb.MinX = math.Min(bb.MinX, b.X-b.Size)
		bb.MinY = math.Min(bb.MinY, b.Y-b.Size)
		bb.MaxX = math.Max(bb.MaxX, b.X+b.Size)
		bb.MaxY = math.Max(bb.MaxY, b.Y+b.Size)
	}
	return bb
}

// NodeAt returns the id of the topmost node whose circle, grown by slop,
// contains the world point (x, y).
func (s *Simulation) NodeAt(x, y, slop float64) (string, bool) {
	for i := len(s.bodies) - 1; i >= 0; i-- {
		b := s.bodies[i]
		r := b.Size + slop
		dx, dy := b.X-x, b.Y-y
		if dx*dx+dy*dy <= r*r {
			return b.ID, true
		}
	}
	return "", false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
