package backdrop

import (
	"fmt"
	"image/color"
)

// Color is a packed 0xAARRGGBB sample with straight (non-premultiplied) alpha.
// It is the pixel format of a Pixmap.
type Color uint32

// ARGB creates a color from alpha, red, green and blue components.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB creates an opaque color from red, green and blue components.
func RGB(r, g, b uint8) Color {
	return ARGB(0xff, r, g, b)
}

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c) }

// WithAlpha returns c with its alpha replaced by a.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00ffffff | Color(a)<<24
}

// NRGBA converts c to the standard library's straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// String returns the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// FromColor converts any color.Color to a Color.
func FromColor(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// ParseHex parses a hex color. Alpha comes first, as in "#AARRGGBB".
// Supported forms: "RGB", "ARGB", "RRGGBB" and "AARRGGBB", with or
// without a leading '#'. Short forms without alpha are opaque.
func ParseHex(s string) (Color, error) {
	hex := s
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var a, r, g, b uint32
	a = 255

	var ok bool
	switch len(hex) {
	case 3: // RGB
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // ARGB
		ok = parseHex(hex[0:1], &a) && parseHex(hex[1:2], &r) &&
			parseHex(hex[2:3], &g) && parseHex(hex[3:4], &b)
		a, r, g, b = a*17, r*17, g*17, b*17
	case 6: // RRGGBB
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8: // AARRGGBB
		ok = parseHex(hex[0:2], &a) && parseHex(hex[2:4], &r) &&
			parseHex(hex[4:6], &g) && parseHex(hex[6:8], &b)
	}
	if !ok {
		return Transparent, fmt.Errorf("backdrop: invalid hex color %q", s)
	}
	return ARGB(uint8(a), uint8(r), uint8(g), uint8(b)), nil
}

// parseHex accumulates hex digits of s into val and reports whether every
// byte was a valid digit.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Common colors
const (
	Transparent Color = 0x00000000
	Black       Color = 0xff000000
	White       Color = 0xffffffff
)
