package layout

import (
	"math"
	"time"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Camera maps world coordinates to a viewport and animates pans and zooms.
// X, Y is the world point at the viewport centre and K the zoom factor.
type Camera struct {
	X, Y, K float64
	W, H    float64

	now     Clock
	pan     *tween
	zoom    *tween
	stopped bool
}

type tween struct {
	from, to [2]float64
	start    time.Time
	dur      time.Duration
}

func (t *tween) at(now time.Time) ([2]float64, bool) {
	p := 1.0
	if t.dur > 0 {
		p = float64(now.Sub(t.start)) / float64(t.dur)
	}
	if p >= 1 {
		return t.to, true
	}
	if p < 0 {
		p = 0
	}
	e := easeCubicInOut(p)
	return [2]float64{
		t.from[0] + (t.to[0]-t.from[0])*e,
		t.from[1] + (t.to[1]-t.from[1])*e,
	}, false
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// NewCamera returns a camera at the origin with zoom 1.
func NewCamera(w, h float64, now Clock) *Camera {
	if now == nil {
		now = time.Now
	}
	return &Camera{K: 1, W: w, H: h, now: now}
}

// Resize sets the viewport size in screen units.
func (c *Camera) Resize(w, h float64) {
	c.W, c.H = w, h
}

// CenterAt pans so (x, y) is at the viewport centre over d.
func (c *Camera) CenterAt(x, y float64, d time.Duration) {
	if c.stopped {
		return
	}
	if d <= 0 {
		c.X, c.Y, c.pan = x, y, nil
		return
	}
	c.pan = &tween{from: [2]float64{c.X, c.Y}, to: [2]float64{x, y}, start: c.now(), dur: d}
}

// Zoom animates the zoom factor to k over d.
func (c *Camera) Zoom(k float64, d time.Duration) {
	if c.stopped || k <= 0 {
		return
	}
	if d <= 0 {
		c.K, c.zoom = k, nil
		return
	}
	c.zoom = &tween{from: [2]float64{c.K, 0}, to: [2]float64{k, 0}, start: c.now(), dur: d}
}

// ZoomToFit frames b inside the viewport with padding screen units on
// every side.
func (c *Camera) ZoomToFit(b Bounds, padding float64, d time.Duration) {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 || c.W <= 2*padding || c.H <= 2*padding {
		return
	}
	k := math.Min((c.W-2*padding)/w, (c.H-2*padding)/h)
	x, y := b.Center()
	c.CenterAt(x, y, d)
	c.Zoom(k, d)
}

// Advance steps running transitions to now and reports whether any remain.
func (c *Camera) Advance(now time.Time) bool {
	if c.pan != nil {
		p, done := c.pan.at(now)
		c.X, c.Y = p[0], p[1]
		if done {
			c.pan = nil
		}
	}
	if c.zoom != nil {
		p, done := c.zoom.at(now)
		c.K = p[0]
		if done {
			c.zoom = nil
		}
	}
	return c.Animating()
}

// Animating reports whether a transition is in flight.
func (c *Camera) Animating() bool {
	return c.pan != nil || c.zoom != nil
}

// Stop abandons in-flight transitions and ignores later ones.
func (c *Camera) Stop() {
	c.stopped = true
	c.pan, c.zoom = nil, nil
}

// ToScreen maps a world point into the viewport.
func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	return (x-c.X)*c.K + c.W/2, (y-c.Y)*c.K + c.H/2
}

// ToWorld maps a viewport point into world coordinates.
func (c *Camera) ToWorld(sx, sy float64) (float64, float64) {
	return (sx-c.W/2)/c.K + c.X, (sy-c.H/2)/c.K + c.Y
}
