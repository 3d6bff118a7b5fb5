package render

import (
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// PNG draws onto an anti-aliased raster.
type PNG struct {
	dc *gg.Context
}

// NewPNG returns a width×height raster surface.
func NewPNG(width, height int) *PNG {
	return &PNG{dc: gg.NewContext(width, height)}
}

// Encode writes the raster as PNG.
func (p *PNG) Encode(w io.Writer) error { return p.dc.EncodePNG(w) }

func (p *PNG) Size() (float64, float64) {
	return float64(p.dc.Width()), float64(p.dc.Height())
}

func (p *PNG) Clear(bg color.NRGBA) {
	p.dc.SetColor(bg)
	p.dc.Clear()
}

func (p *PNG) Line(x1, y1, x2, y2 float64, c color.NRGBA, width float64) {
	p.dc.SetColor(c)
	p.dc.SetLineWidth(width)
	p.dc.DrawLine(x1, y1, x2, y2)
	p.dc.Stroke()
}

func (p *PNG) Circle(cx, cy, r float64, fill, stroke color.NRGBA, strokeWidth float64) {
	p.dc.DrawCircle(cx, cy, r)
	p.dc.SetColor(fill)
	if strokeWidth <= 0 {
		p.dc.Fill()
		return
	}
	p.dc.FillPreserve()
	p.dc.SetColor(stroke)
	p.dc.SetLineWidth(strokeWidth)
	p.dc.Stroke()
}

func (p *PNG) Rect(x, y, w, h float64, fill color.NRGBA) {
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.SetColor(fill)
	p.dc.Fill()
}

func (p *PNG) Text(x, y float64, s string, size float64, c color.NRGBA) {
	if f, err := face(size); err == nil {
		facesMu.Lock()
		defer facesMu.Unlock()
		p.dc.SetFontFace(f)
	}
	p.dc.SetColor(c)
	p.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func (p *PNG) MeasureText(s string, size float64) (float64, float64) {
	return measure(s, size)
}
