package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor parses a color in the form #rrggbb. Returns an opaque
// white if the string doesn't parse, so a malformed saved value renders
// as background instead of garbage.
func ParseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0xff, 0xff, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// NormalizeHex lowercases a #RRGGBB string so structurally-equal colors
// compare equal regardless of how they were typed. Anything that isn't
// a 7-character hex string is returned unchanged.
func NormalizeHex(s string) string {
	if len(s) != 7 || s[0] != '#' {
		return s
	}
	return strings.ToLower(s)
}
