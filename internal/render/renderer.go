package render

import (
	"image/color"
	"math"

	"github.com/msalah0e/skillgraph/internal/controller"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
)

const (
	selectedScale = 1.5
	hoveredScale  = 1.2
	fontSize      = 12.0
	fontSelected  = 14.0
	labelPad      = 4.0
	particleCount = 2
	particleSpeed = 0.01
)

// Scene is everything one frame reads. Nothing in it is modified by Draw.
type Scene struct {
	Graph  *graph.Graph
	Sim    *layout.Simulation
	Camera *layout.Camera
	View   *controller.ViewState
}

// Renderer paints scenes. It keeps the particle phase between frames, so
// one Renderer should be used per viewport.
type Renderer struct {
	Background color.NRGBA
	Legend     bool

	phase float64
}

// New returns a renderer with the default dark background.
func New() *Renderer {
	return &Renderer{Background: DefaultBg}
}

// Phase is the current particle offset along a link, in [0, 1).
func (r *Renderer) Phase() float64 { return r.phase }

// Draw paints one frame of sc onto s and advances particles.
func (r *Renderer) Draw(s Surface, sc Scene) {
	s.Clear(r.Background)
	if sc.Graph == nil || sc.Camera == nil {
		return
	}
	view := sc.View
	if view == nil {
		view = &controller.ViewState{}
	}

	for _, l := range sc.Graph.Links {
		r.drawLink(s, sc, view, l)
	}
	for _, l := range sc.Graph.Links {
		if l.Touches(view.Selected) {
			r.drawParticles(s, sc, l)
		}
	}
	for _, n := range sc.Graph.Nodes {
		r.drawNode(s, sc, view, n)
	}
	if r.Legend {
		r.drawLegend(s, sc.Graph)
	}

	r.phase = math.Mod(r.phase+particleSpeed, 1)
}

// position returns the screen position of id. Nodes without a layout
// position are drawn at the world origin.
func position(sc Scene, id string) (float64, float64) {
	var x, y float64
	if sc.Sim != nil {
		if px, py, ok := sc.Sim.Position(id); ok {
			x, y = px, py
		}
	}
	return sc.Camera.ToScreen(x, y)
}

// LinkHighlighted reports whether either endpoint of l is selected or hovered.
func LinkHighlighted(view *controller.ViewState, l graph.Link) bool {
	return l.Touches(view.Selected) || l.Touches(view.Hovered)
}

// ShowLabel reports whether n gets a text label this frame.
func ShowLabel(view *controller.ViewState, n *graph.Node) bool {
	return view.ShowAllLabels || view.IsFocused(n.ID) || n.Kind.IsCategory()
}

// NodeRadius is the drawn world radius of n.
func NodeRadius(view *controller.ViewState, n *graph.Node) float64 {
	switch {
	case view.IsSelected(n.ID):
		return n.Size * selectedScale
	case view.IsHovered(n.ID):
		return n.Size * hoveredScale
	}
	return n.Size
}

func (r *Renderer) drawLink(s Surface, sc Scene, view *controller.ViewState, l graph.Link) {
	x1, y1 := position(sc, l.Source)
	x2, y2 := position(sc, l.Target)
	if LinkHighlighted(view, l) {
		s.Line(x1, y1, x2, y2, White, 2)
		return
	}
	s.Line(x1, y1, x2, y2, LinkDim, 1)
}

func (r *Renderer) drawParticles(s Surface, sc Scene, l graph.Link) {
	x1, y1 := position(sc, l.Source)
	x2, y2 := position(sc, l.Target)
	rad := math.Max(1, sc.Camera.K)
	for i := 0; i < particleCount; i++ {
		t := math.Mod(r.phase+float64(i)/particleCount, 1)
		s.Circle(x1+(x2-x1)*t, y1+(y2-y1)*t, rad, White, White, 0)
	}
}

func (r *Renderer) drawNode(s Surface, sc Scene, view *controller.ViewState, n *graph.Node) {
	x, y := position(sc, n.ID)
	rad := NodeRadius(view, n) * sc.Camera.K

	fill := mustColor(n.Color)
	if view.IsFocused(n.ID) {
		s.Circle(x, y, rad, fill, White, 2)
	} else {
		s.Circle(x, y, rad, fill, White, 0)
	}

	if !ShowLabel(view, n) {
		return
	}
	fs := fontSize
	if view.IsSelected(n.ID) {
		fs = fontSelected
	}
	tw, _ := s.MeasureText(n.Name, fs)
	ty := y + rad + fs + labelPad
	top := ty - fs/2 - labelPad
	s.Rect(x-tw/2-labelPad, top, tw+2*labelPad, fs+2*labelPad, LabelBg)
	s.Text(x, ty, n.Name, fs, White)
	s.Line(x, y+rad, x, top, Connector, 1)
}

// legendEntries lists the member kinds present in g, in legend order.
func legendEntries(g *graph.Graph) []graph.Kind {
	seen := make(map[graph.Kind]bool)
	for _, n := range g.Nodes {
		if !n.Kind.IsCategory() {
			seen[n.Kind] = true
		}
	}
	var out []graph.Kind
	for _, k := range graph.Kinds {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}

func (r *Renderer) drawLegend(s Surface, g *graph.Graph) {
	entries := legendEntries(g)
	if len(entries) == 0 {
		return
	}
	const (
		row    = 18.0
		margin = 12.0
		dot    = 5.0
	)
	w := 0.0
	for _, k := range entries {
		tw, _ := s.MeasureText(k.Badge(), fontSize)
		w = math.Max(w, tw)
	}
	_, h := s.Size()
	top := h - margin - row*float64(len(entries)) - labelPad
	s.Rect(margin, top, w+4*dot+3*labelPad, row*float64(len(entries))+labelPad, LabelBg)
	for i, k := range entries {
		cy := top + labelPad/2 + row*float64(i) + row/2
		s.Circle(margin+labelPad+dot, cy, dot, mustColor(k.Color()), White, 0)
		tw, _ := s.MeasureText(k.Badge(), fontSize)
		s.Text(margin+2*labelPad+2*dot+tw/2, cy, k.Badge(), fontSize, White)
	}
}
