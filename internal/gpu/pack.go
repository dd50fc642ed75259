//go:build !nogpu

package gpu

import "encoding/binary"

// blurParamsSize is the size of the Params uniform in stackblur.wgsl.
const blurParamsSize = 16

// packPixelsForGPU serializes packed ARGB pixels as little-endian u32
// words, matching array<u32> storage layout.
func packPixelsForGPU(pix []uint32) []byte {
	out := make([]byte, len(pix)*4)
	for i, p := range pix {
		binary.LittleEndian.PutUint32(out[i*4:], p)
	}
	return out
}

// unpackPixelsFromGPU is the inverse of packPixelsForGPU. It decodes
// min(len(dst), len(packed)/4) pixels.
func unpackPixelsFromGPU(packed []byte, dst []uint32) {
	n := min(len(dst), len(packed)/4)
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint32(packed[i*4:])
	}
}

// makeBlurParams returns the 16-byte Params uniform for one pass.
func makeBlurParams(w, h, radius uint32, vertical bool) []byte {
	buf := make([]byte, blurParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], w)
	binary.LittleEndian.PutUint32(buf[4:], h)
	binary.LittleEndian.PutUint32(buf[8:], radius)
	if vertical {
		binary.LittleEndian.PutUint32(buf[12:], 1)
	}
	return buf
}
