package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is the simulation state of one node. FX and FY pin the body when set.
type Body struct {
	ID     string
	X, Y   float64
	VX, VY float64
	FX, FY *float64
	Radius float64 // collision radius
	Size   float64 // drawn radius at rest
	index  int
}

// Coord2 and Mass implement barneshut.Particle2. Every body carries the
// same charge so aggregate mass is a body count.
func (b *Body) Coord2() r2.Vec { return r2.Vec{X: b.X, Y: b.Y} }
func (b *Body) Mass() float64  { return 1 }

// Pinned reports whether the body is held in place.
func (b *Body) Pinned() bool { return b.FX != nil && b.FY != nil }

type simLink struct {
	source, target *Body
	distance       float64
	strength       float64
	bias           float64
}

// applyLinks pulls linked bodies toward their rest distance.
func (s *Simulation) applyLinks(alpha float64) {
	for _, l := range s.links {
		src, tgt := l.source, l.target
		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}
		d := math.Sqrt(dx*dx + dy*dy)
		k := (d - l.distance) / d * alpha * l.strength
		dx *= k
		dy *= k
		tgt.VX -= dx * l.bias
		tgt.VY -= dy * l.bias
		src.VX += dx * (1 - l.bias)
		src.VY += dy * (1 - l.bias)
	}
}

// applyCharge repels every body from every other using a Barnes–Hut
// approximation over the current positions.
func (s *Simulation) applyCharge(alpha float64) {
	if len(s.bodies) < 2 {
		return
	}
	particles := make([]barneshut.Particle2, len(s.bodies))
	for i, b := range s.bodies {
		particles[i] = b
	}
	plane, err := barneshut.NewPlane(particles)
	if err != nil {
		s.log.Sugar().Warnw("charge force skipped", "error", err)
		return
	}

	strength := -s.cfg.Spacing * alpha
	force := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p1 == p2 {
			return r2.Vec{}
		}
		d2 := v.X*v.X + v.Y*v.Y
		if d2 == 0 {
			return r2.Vec{}
		}
		if d2 < 1 {
			d2 = 1
		}
		return r2.Scale(strength*m2/d2, v)
	}

	for _, b := range s.bodies {
		f := plane.ForceOn(b, s.cfg.Theta, force)
		b.VX += f.X
		b.VY += f.Y
	}
}

// applyCenter translates all bodies so their mean moves toward the origin.
func (s *Simulation) applyCenter() {
	if len(s.bodies) == 0 || s.cfg.CenterStrength == 0 {
		return
	}
	var sx, sy float64
	for _, b := range s.bodies {
		sx += b.X
		sy += b.Y
	}
	n := float64(len(s.bodies))
	sx = sx / n * s.cfg.CenterStrength
	sy = sy / n * s.cfg.CenterStrength
	for _, b := range s.bodies {
		b.X -= sx
		b.Y -= sy
	}
}

// applyCollide pushes apart bodies whose collision circles overlap. Larger
// bodies move less.
func (s *Simulation) applyCollide() {
	for i, a := range s.bodies {
		xi, yi := a.X+a.VX, a.Y+a.VY
		ri2 := a.Radius * a.Radius
		for _, b := range s.bodies[i+1:] {
			r := a.Radius + b.Radius
			x := xi - b.X - b.VX
			y := yi - b.Y - b.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (r - d) / d
			x *= k
			y *= k
			rj2 := b.Radius * b.Radius
			share := 0.5
			if ri2+rj2 > 0 {
				share = rj2 / (ri2 + rj2)
			}
			a.VX += x * share
			a.VY += y * share
			b.VX -= x * (1 - share)
			b.VY -= y * (1 - share)
		}
	}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
