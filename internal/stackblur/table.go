package stackblur

import "math/bits"

// MaxRadius is the largest radius with a precomputed divisor.
// Larger radii are clamped by ClampRadius.
const MaxRadius = 254

// divisor holds the reciprocal used to turn a weighted window sum into an
// average: (sum * mul) >> shift.
type divisor struct {
	mul   uint64
	shift uint
}

// table is indexed by radius. Built once in init and never written again.
var table [MaxRadius + 1]divisor

func init() {
	for r := 0; r <= MaxRadius; r++ {
		table[r] = newDivisor(uint64(r+1) * uint64(r+1))
	}
}

// newDivisor picks shift so that 2^shift > 255*d*d. With mul = ceil(2^shift/d)
// the rounding error mul*d - 2^shift stays below d, which keeps
// (sum*mul)>>shift equal to sum/d for every sum <= 255*d.
func newDivisor(d uint64) divisor {
	shift := uint(bits.Len64(255 * d * d))
	one := uint64(1) << shift
	return divisor{
		mul:   (one + d - 1) / d,
		shift: shift,
	}
}

// Lookup returns the multiplier and shift for radius r.
// r is clamped to [0, MaxRadius].
func Lookup(r int) (mul uint64, shift uint) {
	d := table[ClampRadius(r)]
	return d.mul, d.shift
}

// WeightSum returns the sum of the triangular kernel weights for radius r,
// which is (r+1)^2.
func WeightSum(r int) int {
	r = ClampRadius(r)
	return (r + 1) * (r + 1)
}

// ClampRadius clamps r to the supported range [0, MaxRadius].
func ClampRadius(r int) int {
	if r < 0 {
		return 0
	}
	if r > MaxRadius {
		return MaxRadius
	}
	return r
}
