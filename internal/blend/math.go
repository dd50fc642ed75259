// Package blend composites packed 0xAARRGGBB colors with straight
// (non-premultiplied) alpha.
//
// The div255 helpers avoid integer division. They are exact, so a fully
// transparent overlay leaves the destination bit-for-bit unchanged.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
package blend

// div255 divides x by 255 with rounding, exactly, for x <= 65535-128.
//
// Formula: t = x + 128; (t + (t >> 8)) >> 8
func div255(x uint32) uint32 {
	t := x + 128
	return (t + (t >> 8)) >> 8
}

// lerp255 blends a toward b by t/255, rounding to nearest.
func lerp255(a, b, t uint32) uint32 {
	return div255(a*(255-t) + b*t)
}

// unpack splits a packed color into its channels.
func unpack(c uint32) (a, r, g, b uint32) {
	return c >> 24, (c >> 16) & 0xff, (c >> 8) & 0xff, c & 0xff
}

// pack joins channels into a packed color. Channels must be <= 255.
func pack(a, r, g, b uint32) uint32 {
	return a<<24 | r<<16 | g<<8 | b
}
