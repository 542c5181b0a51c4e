package og

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// measure returns the advance width of text in pixels.
func measure(f font.Face, text string) int {
	d := &font.Drawer{Face: f}
	return d.MeasureString(text).Ceil()
}

// drawString draws text with its baseline at (x, y).
func drawString(dst *image.RGBA, f font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrapLines breaks text into at most maxLines lines fitting maxWidth,
// breaking on spaces. The final line is ellipsized when text remains.
func wrapLines(f font.Face, text string, maxWidth, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for i := 1; i < len(words); i++ {
		candidate := current + " " + words[i]
		if measure(f, candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		if len(lines) == maxLines-1 {
			// Last permitted line takes everything left; ellipsize below.
			current = strings.Join(words[i:], " ")
			break
		}
		current = words[i]
	}
	lines = append(lines, ellipsize(f, current, maxWidth))
	return lines
}

// ellipsize trims text with a trailing ellipsis until it fits maxWidth.
func ellipsize(f font.Face, text string, maxWidth int) string {
	if measure(f, text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if measure(f, candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}

// parseHexColor parses "#rgb" or "#rrggbb". The fallback is returned for
// anything unparseable, so a bad accent value can't fail a render.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	switch len(s) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			v, ok := hexVal(s[i])
			if !ok {
				return fallback
			}
			out[i] = v*16 + v
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[2*i])
			lo, ok2 := hexVal(s[2*i+1])
			if !ok1 || !ok2 {
				return fallback
			}
			out[i] = hi*16 + lo
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
	}
	return fallback
}
