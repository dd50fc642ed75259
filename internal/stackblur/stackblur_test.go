package stackblur

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// referenceBlur is the direct O(r) convolution with the triangular kernel
// and replicate-edge sampling. The stack blur must match it exactly.
func referenceBlur(src []uint32, w, h, radius int) []uint32 {
	d := uint64((radius + 1) * (radius + 1))
	tmp := make([]uint32, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b uint64
			for k := -radius; k <= radius; k++ {
				p := src[y*w+clampIndex(x+k, w-1)]
				wt := uint64(radius + 1 - abs(k))
				r += uint64(p>>16&0xff) * wt
				g += uint64(p>>8&0xff) * wt
				b += uint64(p&0xff) * wt
			}
			tmp[y*w+x] = src[y*w+x]&alphaMask | uint32(r/d)<<16 | uint32(g/d)<<8 | uint32(b/d)
		}
	}
	out := make([]uint32, len(src))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var r, g, b uint64
			for k := -radius; k <= radius; k++ {
				p := tmp[clampIndex(y+k, h-1)*w+x]
				wt := uint64(radius + 1 - abs(k))
				r += uint64(p>>16&0xff) * wt
				g += uint64(p>>8&0xff) * wt
				b += uint64(p&0xff) * wt
			}
			out[y*w+x] = src[y*w+x]&alphaMask | uint32(r/d)<<16 | uint32(g/d)<<8 | uint32(b/d)
		}
	}
	return out
}

func randomPixels(w, h int, seed uint64) []uint32 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pix := make([]uint32, w*h)
	for i := range pix {
		pix[i] = rng.Uint32()
	}
	return pix
}

func fill(w, h int, c uint32) []uint32 {
	pix := make([]uint32, w*h)
	for i := range pix {
		pix[i] = c
	}
	return pix
}

func TestLookupExactDivision(t *testing.T) {
	for r := 0; r <= MaxRadius; r++ {
		mul, shift := Lookup(r)
		d := uint64(WeightSum(r))
		check := func(sum uint64) {
			if got, want := (sum*mul)>>shift, sum/d; got != want {
				t.Fatalf("radius %d: (%d*%d)>>%d = %d, want %d", r, sum, mul, shift, got, want)
			}
		}
		for k := uint64(0); k <= 255; k++ {
			check(k * d)
			if k > 0 {
				check(k*d - 1)
			}
		}
		check(255*d - 1)
	}
}

func TestWeightSum(t *testing.T) {
	tests := []struct {
		radius int
		want   int
	}{
		{0, 1},
		{1, 4},
		{2, 9},
		{25, 676},
		{MaxRadius, 255 * 255},
		{1000, 255 * 255},
	}
	for _, tt := range tests {
		if got := WeightSum(tt.radius); got != tt.want {
			t.Errorf("WeightSum(%d) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestClampRadius(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{17, 17},
		{MaxRadius, MaxRadius},
		{MaxRadius + 1, MaxRadius},
		{4096, MaxRadius},
	}
	for _, tt := range tests {
		if got := ClampRadius(tt.in); got != tt.want {
			t.Errorf("ClampRadius(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestApplyMatchesReference(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		radius int
	}{
		{"1x1", 1, 1, 3},
		{"row", 17, 1, 2},
		{"column", 1, 13, 4},
		{"small r1", 8, 6, 1},
		{"radius wider than image", 5, 4, 9},
		{"odd sizes", 31, 19, 5},
		{"medium", 64, 48, 12},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := randomPixels(tt.w, tt.h, uint64(i+1))
			want := referenceBlur(src, tt.w, tt.h, tt.radius)

			got := append([]uint32(nil), src...)
			Apply(got, tt.w, tt.h, tt.radius)

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Apply mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyZeroRadiusIsIdentity(t *testing.T) {
	src := randomPixels(9, 7, 42)
	got := append([]uint32(nil), src...)

	Apply(got, 9, 7, 0)
	Apply(got, 9, 7, -4)

	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("radius 0 changed the buffer (-want +got):\n%s", diff)
	}
}

func TestApplyPreservesAlpha(t *testing.T) {
	for _, radius := range []int{1, 2, 7, 40} {
		src := randomPixels(23, 17, uint64(radius))
		got := append([]uint32(nil), src...)
		Apply(got, 23, 17, radius)

		for i := range src {
			if got[i]>>24 != src[i]>>24 {
				t.Fatalf("radius %d: alpha at %d = %d, want %d", radius, i, got[i]>>24, src[i]>>24)
			}
		}
	}
}

func TestApplyUniformUnchanged(t *testing.T) {
	red := uint32(0xffff0000)
	for _, radius := range []int{1, 2, 5, MaxRadius, 1000} {
		pix := fill(4, 4, red)
		Apply(pix, 4, 4, radius)
		for i, p := range pix {
			if p != red {
				t.Fatalf("radius %d: pixel %d = %#08x, want %#08x", radius, i, p, red)
			}
		}
	}

	// Translucent, mid-gray buffer: every channel value stays intact.
	gray := uint32(0x807f7f7f)
	pix := fill(13, 9, gray)
	Apply(pix, 13, 9, 6)
	for i, p := range pix {
		if p != gray {
			t.Fatalf("pixel %d = %#08x, want %#08x", i, p, gray)
		}
	}
}

func TestApplyCheckerboardMixes(t *testing.T) {
	black, white := uint32(0xff000000), uint32(0xffffffff)
	pix := []uint32{black, white, white, black}

	Apply(pix, 2, 2, 1)

	for i, p := range pix {
		if p>>24 != 0xff {
			t.Errorf("pixel %d alpha = %d, want 255", i, p>>24)
		}
		for _, c := range []uint32{p >> 16 & 0xff, p >> 8 & 0xff, p & 0xff} {
			if c == 0 || c == 255 {
				t.Errorf("pixel %d channel = %d, want strictly between 0 and 255", i, c)
			}
		}
	}
}

func TestApplyTwiceDiffersFromOnce(t *testing.T) {
	src := randomPixels(32, 24, 7)

	once := append([]uint32(nil), src...)
	Apply(once, 32, 24, 3)

	twice := append([]uint32(nil), once...)
	Apply(twice, 32, 24, 3)

	if cmp.Equal(once, twice) {
		t.Error("blurring twice produced the same buffer as blurring once")
	}
	if cmp.Equal(src, once) {
		t.Error("blurring once did not change a random buffer")
	}
}

func TestApplyClampsLargeRadius(t *testing.T) {
	src := randomPixels(20, 10, 3)

	clamped := append([]uint32(nil), src...)
	Apply(clamped, 20, 10, MaxRadius)

	huge := append([]uint32(nil), src...)
	Apply(huge, 20, 10, 10_000)

	if diff := cmp.Diff(clamped, huge); diff != "" {
		t.Errorf("radius above MaxRadius not clamped (-want +got):\n%s", diff)
	}
}

func TestApplyPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Apply did not panic on a short buffer")
		}
	}()
	Apply(make([]uint32, 5), 3, 2, 1)
}

func TestPassesInRangesMatchApply(t *testing.T) {
	const w, h, radius = 37, 29, 4
	src := randomPixels(w, h, 99)

	want := append([]uint32(nil), src...)
	Apply(want, w, h, radius)

	got := append([]uint32(nil), src...)
	for y := 0; y < h; y += 5 {
		HorizontalRows(got, w, h, radius, y, y+5)
	}
	for x := 0; x < w; x += 8 {
		VerticalColumns(got, w, h, radius, x, x+8)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranged passes differ from Apply (-want +got):\n%s", diff)
	}
}

func TestHorizontalRowsTouchesOnlyItsRows(t *testing.T) {
	const w, h = 16, 8
	src := randomPixels(w, h, 5)
	got := append([]uint32(nil), src...)

	HorizontalRows(got, w, h, 3, 2, 4)

	for y := 0; y < h; y++ {
		if y >= 2 && y < 4 {
			continue
		}
		for x := 0; x < w; x++ {
			if got[y*w+x] != src[y*w+x] {
				t.Fatalf("pixel (%d,%d) outside rows [2,4) was modified", x, y)
			}
		}
	}
}

func BenchmarkApply(b *testing.B) {
	for _, radius := range []int{5, 25, 100} {
		b.Run("r"+strconv.Itoa(radius), func(b *testing.B) {
			const w, h = 1920, 1080
			src := randomPixels(w, h, 1)
			pix := make([]uint32, len(src))
			b.SetBytes(int64(len(src) * 4))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(pix, src)
				Apply(pix, w, h, radius)
			}
		})
	}
}
