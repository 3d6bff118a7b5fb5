package render

import (
	"bytes"
	"time"

	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/controller"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
)

// Options controls a still snapshot.
type Options struct {
	Width, Height int
	Ticks         int
	Padding       float64
	Background    string
	Legend        bool
	View          controller.ViewState
}

// OptionsFromConfig reads the render section of the config.
func OptionsFromConfig(c config.RenderConfig) Options {
	return Options{
		Width:      c.Width,
		Height:     c.Height,
		Ticks:      c.Ticks,
		Padding:    c.Padding,
		Background: c.Background,
		Legend:     c.Legend,
		View:       controller.ViewState{ShowAllLabels: true, Zoom: 1},
	}
}

// Settle lays g out to rest and frames it in the viewport.
func Settle(g *graph.Graph, cfg layout.Config, o Options, opts ...layout.Option) Scene {
	eng := layout.NewEngine(g, cfg, float64(o.Width), float64(o.Height), time.Now, opts...)
	eng.Sim().Settle(o.Ticks)
	eng.ZoomToFit(o.Padding, 0)
	if o.View.Zoom > 0 && o.View.Zoom != 1 {
		cam := eng.Camera()
		cam.Zoom(cam.K*o.View.Zoom, 0)
	}
	view := o.View
	return Scene{Graph: g, Sim: eng.Sim(), Camera: eng.Camera(), View: &view}
}

func (o Options) renderer() *Renderer {
	r := New()
	if o.Background != "" {
		if c, err := ParseColor(o.Background); err == nil {
			r.Background = c
		}
	}
	r.Legend = o.Legend
	return r
}

// SVGBytes draws sc as an SVG document.
func SVGBytes(sc Scene, o Options) []byte {
	var buf bytes.Buffer
	s := NewSVG(&buf, o.Width, o.Height)
	o.renderer().Draw(s, sc)
	s.Close()
	return buf.Bytes()
}

// PNGBytes draws sc as a PNG image.
func PNGBytes(sc Scene, o Options) ([]byte, error) {
	p := NewPNG(o.Width, o.Height)
	o.renderer().Draw(p, sc)
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CellString draws sc onto a cols×rows terminal grid.
func CellString(sc Scene, o Options, cols, rows int) string {
	c := NewCells(cols, rows)
	o.renderer().Draw(c, sc)
	return c.String()
}
