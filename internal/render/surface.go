package render

import "image/color"

// Surface is a 2D drawing target in screen units. Text is centred on the
// given point.
type Surface interface {
	Size() (w, h float64)
	Clear(bg color.NRGBA)
	Line(x1, y1, x2, y2 float64, c color.NRGBA, width float64)
	// Circle draws a filled circle; strokeWidth 0 means no outline.
	Circle(cx, cy, r float64, fill, stroke color.NRGBA, strokeWidth float64)
	Rect(x, y, w, h float64, fill color.NRGBA)
	Text(x, y float64, s string, size float64, c color.NRGBA)
	MeasureText(s string, size float64) (w, h float64)
}
