package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// SVG draws onto an svgo canvas. Coordinates are rounded to whole units.
type SVG struct {
	canvas *svg.SVG
	w, h   float64
}

// NewSVG starts a width×height document on w. Call Close to finish it.
func NewSVG(w io.Writer, width, height int) *SVG {
	c := svg.New(w)
	c.Start(width, height, `font-family="Go, sans-serif"`)
	return &SVG{canvas: c, w: float64(width), h: float64(height)}
}

// Close ends the document.
func (s *SVG) Close() { s.canvas.End() }

func (s *SVG) Size() (float64, float64) { return s.w, s.h }

func (s *SVG) Clear(bg color.NRGBA) {
	s.canvas.Rect(0, 0, int(s.w), int(s.h), fill(bg))
}

func (s *SVG) Line(x1, y1, x2, y2 float64, c color.NRGBA, width float64) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2),
		fmt.Sprintf("stroke:%s;stroke-opacity:%s;stroke-width:%s", hexOf(c), opacity(c), num(width)))
}

func (s *SVG) Circle(cx, cy, r float64, f, stroke color.NRGBA, strokeWidth float64) {
	style := fill(f)
	if strokeWidth > 0 {
		style += fmt.Sprintf(";stroke:%s;stroke-width:%s", hexOf(stroke), num(strokeWidth))
	}
	s.canvas.Circle(px(cx), px(cy), int(math.Max(1, math.Round(r))), style)
}

func (s *SVG) Rect(x, y, w, h float64, f color.NRGBA) {
	s.canvas.Rect(px(x), px(y), px(w), px(h), fill(f))
}

func (s *SVG) Text(x, y float64, str string, size float64, c color.NRGBA) {
	s.canvas.Text(px(x), px(y), str,
		fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-size:%spx;%s", num(size), fill(c)))
}

func (s *SVG) MeasureText(str string, size float64) (float64, float64) {
	return measure(str, size)
}

func px(v float64) int { return int(math.Round(v)) }

func num(v float64) string { return fmt.Sprintf("%g", v) }

func opacity(c color.NRGBA) string {
	return fmt.Sprintf("%.2f", float64(c.A)/255)
}

func fill(c color.NRGBA) string {
	if c.A == 255 {
		return "fill:" + hexOf(c)
	}
	return fmt.Sprintf("fill:%s;fill-opacity:%s", hexOf(c), opacity(c))
}
