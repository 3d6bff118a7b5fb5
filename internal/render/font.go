package render

import (
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error

	facesMu sync.Mutex
	faces   = make(map[float64]font.Face)
)

// face returns a cached Go Regular face at size points (72 DPI, so one
// point is one screen unit).
func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	faces[size] = f
	return f, nil
}

// measure returns the advance width and height of s at size.
func measure(s string, size float64) (float64, float64) {
	f, err := face(size)
	if err != nil {
		return 0.6 * size * float64(utf8.RuneCountInString(s)), size
	}
	facesMu.Lock()
	adv := font.MeasureString(f, s)
	facesMu.Unlock()
	return float64(adv) / 64, size
}
