// Package stackblur implements the stack blur: a separable sliding-window
// blur with a triangular kernel that approximates a Gaussian in O(1) work
// per pixel, independent of the radius.
//
// Pixels are packed 0xAARRGGBB. Only the color channels are blurred; alpha
// is left exactly as it was.
//
// The two passes are exposed separately (HorizontalRows, VerticalColumns) so
// callers can split them into independent line ranges. Every row of the
// horizontal pass must be finished before any column of the vertical pass
// starts, because a column reads the horizontal result of every row.
package stackblur

import "fmt"

const (
	alphaMask = 0xff000000
	colorMask = 0x00ffffff
)

// sample is one raw entry of the sliding window.
type sample struct {
	r, g, b uint32
}

func (s *sample) set(p uint32) {
	s.r = (p >> 16) & 0xff
	s.g = (p >> 8) & 0xff
	s.b = p & 0xff
}

// Apply blurs pix in place: a horizontal pass over all rows, then a vertical
// pass over all columns. Radius values below 1 leave the buffer untouched;
// radius values above MaxRadius are clamped.
//
// Apply panics if len(pix) != w*h.
func Apply(pix []uint32, w, h, radius int) {
	if radius < 1 || w <= 0 || h <= 0 {
		return
	}
	checkLen(pix, w, h)
	HorizontalRows(pix, w, h, radius, 0, h)
	VerticalColumns(pix, w, h, radius, 0, w)
}

// HorizontalRows runs the horizontal pass over rows [y0, y1).
// It reads and writes only those rows.
func HorizontalRows(pix []uint32, w, h, radius, y0, y1 int) {
	radius = ClampRadius(radius)
	if radius < 1 || w <= 0 || h <= 0 {
		return
	}
	checkLen(pix, w, h)
	y0, y1 = clampSpan(y0, y1, h)

	mul, shift := Lookup(radius)
	ring := make([]sample, 2*radius+1)
	for y := y0; y < y1; y++ {
		blurLine(pix, y*w, 1, w, radius, ring, mul, shift)
	}
}

// VerticalColumns runs the vertical pass over columns [x0, x1).
// It reads and writes only those columns.
func VerticalColumns(pix []uint32, w, h, radius, x0, x1 int) {
	radius = ClampRadius(radius)
	if radius < 1 || w <= 0 || h <= 0 {
		return
	}
	checkLen(pix, w, h)
	x0, x1 = clampSpan(x0, x1, w)

	mul, shift := Lookup(radius)
	ring := make([]sample, 2*radius+1)
	for x := x0; x < x1; x++ {
		blurLine(pix, x, w, h, radius, ring, mul, shift)
	}
}

// blurLine blurs the n pixels at pix[start], pix[start+stride], ... in place.
//
// ring holds the 2*radius+1 raw samples currently inside the window. It is
// fully rewritten while priming, so nothing carries over between lines.
// sumOut covers the samples at or left of the center, sumIn those right of it.
func blurLine(pix []uint32, start, stride, n, radius int, ring []sample, mul uint64, shift uint) {
	last := n - 1
	div := len(ring)

	var sumR, sumG, sumB uint64
	var inR, inG, inB uint64
	var outR, outG, outB uint64

	for i := -radius; i <= radius; i++ {
		s := &ring[i+radius]
		s.set(pix[start+clampIndex(i, last)*stride])

		weight := uint64(radius + 1 - abs(i))
		sumR += uint64(s.r) * weight
		sumG += uint64(s.g) * weight
		sumB += uint64(s.b) * weight

		if i > 0 {
			inR += uint64(s.r)
			inG += uint64(s.g)
			inB += uint64(s.b)
		} else {
			outR += uint64(s.r)
			outG += uint64(s.g)
			outB += uint64(s.b)
		}
	}

	sp := radius
	for i := 0; i < n; i++ {
		idx := start + i*stride
		r := uint32((sumR * mul) >> shift)
		g := uint32((sumG * mul) >> shift)
		b := uint32((sumB * mul) >> shift)
		pix[idx] = pix[idx]&alphaMask | (r<<16|g<<8|b)&colorMask

		sumR -= outR
		sumG -= outG
		sumB -= outB

		// Oldest sample leaves the window; its slot receives the newest one.
		s := &ring[(sp+radius+1)%div]
		outR -= uint64(s.r)
		outG -= uint64(s.g)
		outB -= uint64(s.b)

		next := i + radius + 1
		if next > last {
			next = last
		}
		s.set(pix[start+next*stride])

		inR += uint64(s.r)
		inG += uint64(s.g)
		inB += uint64(s.b)

		sumR += inR
		sumG += inG
		sumB += inB

		sp++
		if sp == div {
			sp = 0
		}
		s = &ring[sp]

		outR += uint64(s.r)
		outG += uint64(s.g)
		outB += uint64(s.b)

		inR -= uint64(s.r)
		inG -= uint64(s.g)
		inB -= uint64(s.b)
	}
}

func checkLen(pix []uint32, w, h int) {
	if len(pix) != w*h {
		panic(fmt.Sprintf("stackblur: buffer length %d does not match %dx%d", len(pix), w, h))
	}
}

// clampSpan clamps [lo, hi) to [0, n).
func clampSpan(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

// clampIndex replicates the edge pixel for out-of-range indices.
func clampIndex(i, last int) int {
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
