package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal cells are roughly twice as tall as they are wide.
const (
	CellW = 8.0
	CellH = 16.0
)

type cell struct {
	r  rune
	fg color.NRGBA
	bg color.NRGBA
}

// Cells rasterises onto a grid of terminal cells. Screen units map to
// cells at CellW×CellH per cell.
type Cells struct {
	cols, rows int
	grid       [][]cell
	bg         color.NRGBA
}

// NewCells returns a cols×rows grid.
func NewCells(cols, rows int) *Cells {
	c := &Cells{cols: cols, rows: rows, bg: DefaultBg}
	c.grid = make([][]cell, rows)
	for i := range c.grid {
		c.grid[i] = make([]cell, cols)
	}
	c.Clear(DefaultBg)
	return c
}

func (c *Cells) Size() (float64, float64) {
	return float64(c.cols) * CellW, float64(c.rows) * CellH
}

func (c *Cells) Clear(bg color.NRGBA) {
	c.bg = over(bg, color.NRGBA{A: 255})
	for y := range c.grid {
		for x := range c.grid[y] {
			c.grid[y][x] = cell{r: ' ', fg: White, bg: c.bg}
		}
	}
}

func (c *Cells) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.grid[row][col]
}

func toCell(x, y float64) (int, int) {
	return int(math.Floor(x / CellW)), int(math.Floor(y / CellH))
}

func (c *Cells) Line(x1, y1, x2, y2 float64, col color.NRGBA, _ float64) {
	cx1, cy1 := toCell(x1, y1)
	cx2, cy2 := toCell(x2, y2)
	dx, dy := abs(cx2-cx1), -abs(cy2-cy1)
	sx, sy := sign(cx2-cx1), sign(cy2-cy1)
	err := dx + dy
	for steps := 0; steps <= c.cols+c.rows+dx-dy; steps++ {
		if p := c.at(cx1, cy1); p != nil {
			p.r = '·'
			p.fg = over(col, p.bg)
		}
		if cx1 == cx2 && cy1 == cy2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			cx1 += sx
		}
		if e2 <= dx {
			err += dx
			cy1 += sy
		}
	}
}

func (c *Cells) Circle(cx, cy, r float64, fill, stroke color.NRGBA, strokeWidth float64) {
	col0, row0 := toCell(cx-r, cy-r)
	col1, row1 := toCell(cx+r, cy+r)
	covered := 0
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			p := c.at(col, row)
			if p == nil {
				continue
			}
			mx := (float64(col) + 0.5) * CellW
			my := (float64(row) + 0.5) * CellH
			if (mx-cx)*(mx-cx)+(my-cy)*(my-cy) <= r*r {
				p.bg = over(fill, p.bg)
				p.r = ' '
				covered++
			}
		}
	}
	p := c.at(toCell(cx, cy))
	if p == nil {
		return
	}
	switch {
	case strokeWidth > 0:
		p.r, p.fg = '◉', over(stroke, p.bg)
	case covered == 0:
		p.r, p.fg = '●', over(fill, p.bg)
	}
}

func (c *Cells) Rect(x, y, w, h float64, fill color.NRGBA) {
	col0, row0 := toCell(x, y)
	col1, row1 := toCell(x+w-1, y+h-1)
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			if p := c.at(col, row); p != nil {
				p.bg = over(fill, p.bg)
				p.r = ' '
			}
		}
	}
}

func (c *Cells) Text(x, y float64, s string, size float64, col color.NRGBA) {
	w, _ := c.MeasureText(s, size)
	start, row := toCell(x-w/2, y)
	i := 0
	for _, r := range s {
		if p := c.at(start+i, row); p != nil {
			p.r = r
			p.fg = over(col, p.bg)
		}
		i++
	}
}

func (c *Cells) MeasureText(s string, _ float64) (float64, float64) {
	return float64(lipgloss.Width(s)) * CellW, CellH
}

// Plain returns the grid runes without colour.
func (c *Cells) Plain() string {
	var b strings.Builder
	for i, row := range c.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, p := range row {
			b.WriteRune(p.r)
		}
	}
	return b.String()
}

// String renders the grid with true-colour styles, merging runs of cells
// that share colours.
func (c *Cells) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].fg == row[start].fg && row[j].bg == row[start].bg {
				continue
			}
			var run strings.Builder
			for _, p := range row[start:j] {
				run.WriteRune(p.r)
			}
			st := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexOf(row[start].fg))).
				Background(lipgloss.Color(hexOf(row[start].bg)))
			b.WriteString(st.Render(run.String()))
			start = j
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
