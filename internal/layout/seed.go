package layout

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
)

const (
	SeedPhyllotaxis = "phyllotaxis"
	SeedEades       = "eades"

	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// seed places every body that has no position yet. Bodies known to the
// previous simulation keep their position; new members start next to their
// category hub when the hub is already placed.
func (s *Simulation) seed() {
	if s.prev != nil {
		for _, b := range s.bodies {
			if p, ok := s.prev.byID[b.ID]; ok {
				b.X, b.Y = p.X, p.Y
				if p.Pinned() {
					fx, fy := *p.FX, *p.FY
					b.FX, b.FY = &fx, &fy
				}
			}
		}
	}

	if s.cfg.Seed == SeedEades && s.prev == nil {
		if err := s.seedEades(); err != nil {
			s.log.Warn("eades seeding failed, using phyllotaxis", zap.Error(err))
		}
	}

	for i, b := range s.bodies {
		if finite(b.X) && finite(b.Y) {
			continue
		}
		if n, ok := s.g.Node(b.ID); ok && n.Category != "" {
			if hub, ok := s.byID[n.Category]; ok && finite(hub.X) && finite(hub.Y) {
				angle := float64(i) * initialAngle
				b.X = hub.X + s.cfg.HubLinkDistance*math.Cos(angle)
				b.Y = hub.Y + s.cfg.HubLinkDistance*math.Sin(angle)
				continue
			}
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		b.X = r * math.Cos(angle)
		b.Y = r * math.Sin(angle)
	}
}

// seedEades runs a short spring-electrical pre-layout over the graph's
// topology and scales it to link distances.
func (s *Simulation) seedEades() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eades layout: %v", r)
		}
	}()

	ug := simple.NewUndirectedGraph()
	for i := range s.bodies {
		ug.AddNode(simple.Node(i))
	}
	for _, l := range s.links {
		u, v := int64(l.source.index), int64(l.target.index)
		if u == v || ug.HasEdgeBetween(u, v) {
			continue
		}
		ug.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
	}

	eades := layout.EadesR2{Updates: 100, Repulsion: 1, Rate: 0.05, Theta: 0.2}
	opt := layout.NewOptimizerR2(ug, eades.Update)
	for opt.Update() {
	}

	scale := s.cfg.HubLinkDistance
	for i, b := range s.bodies {
		if finite(b.X) && finite(b.Y) {
			continue
		}
		c := opt.Coord2(int64(i))
		b.X, b.Y = c.X*scale, c.Y*scale
	}
	return nil
}
