package ui

import "testing"

func TestParseHex(t *testing.T) {
	tests := map[string]struct {
		in      string
		r, g, b int
		ok      bool
	}{
		"blue":      {in: "#3b82f6", r: 0x3b, g: 0x82, b: 0xf6, ok: true},
		"no hash":   {in: "10b981", r: 0x10, g: 0xb9, b: 0x81, ok: true},
		"too short": {in: "#fff", ok: false},
		"not hex":   {in: "#zzzzzz", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r, g, b, ok := parseHex(tc.in)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && (r != tc.r || g != tc.g || b != tc.b) {
				t.Errorf("expected %d,%d,%d got %d,%d,%d", tc.r, tc.g, tc.b, r, g, b)
			}
		})
	}
}

func TestVisibleLen(t *testing.T) {
	if n := visibleLen("\x1b[38;2;59;130;246m●\x1b[0m"); n != 1 {
		t.Errorf("expected 1 visible rune, got %d", n)
	}
	if n := visibleLen("Vibe Coding"); n != 11 {
		t.Errorf("expected 11, got %d", n)
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("expected %q, got %q", "ab  ", got)
	}
	if got := pad("abcdef", 4); got != "abcdef" {
		t.Errorf("expected no truncation, got %q", got)
	}
}
