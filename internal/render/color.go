package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	White        = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	LinkDim      = color.NRGBA{R: 255, G: 255, B: 255, A: 51}  // rgba(255,255,255,0.2)
	LabelBg      = color.NRGBA{R: 0, G: 0, B: 0, A: 204}       // rgba(0,0,0,0.8)
	Connector    = color.NRGBA{R: 255, G: 255, B: 255, A: 77}  // rgba(255,255,255,0.3)
	DefaultBg    = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}
	fallbackFill = color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 255}
)

// ParseColor reads "#rrggbb", "#rgb" or "rgba(r,g,b,a)".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[5:len(s)-1], ",")
		if len(parts) != 4 {
			return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
		}
		var v [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || n < 0 || n > 255 {
				return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
			}
			v[i] = uint8(n)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
		}
		return color.NRGBA{R: v[0], G: v[1], B: v[2], A: uint8(a*255 + 0.5)}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad colour %q", s)
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

func mustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallbackFill
	}
	return c
}

// over composites c onto an opaque background.
func over(c, bg color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(f, b uint8) uint8 { return uint8(float64(f)*a + float64(b)*(1-a) + 0.5) }
	return color.NRGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 255}
}

func hexOf(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
