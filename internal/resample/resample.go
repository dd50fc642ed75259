// Package resample scales packed 0xAARRGGBB pixel buffers.
//
// Scaling is delegated to golang.org/x/image/draw. Buffers are viewed as
// image.NRGBA so straight alpha survives the round trip.
package resample

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Mode selects the interpolation used when scaling.
type Mode uint8

const (
	// Bilinear interpolates between the 4 nearest pixels. This is the
	// default: smooth, and cheap enough for backdrop-sized buffers.
	Bilinear Mode = iota

	// Nearest picks the closest pixel. Fast but blocky.
	Nearest

	// ApproxBilinear is a faster approximation of Bilinear.
	ApproxBilinear

	// CatmullRom uses a cubic kernel. Highest quality, slowest.
	CatmullRom
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Bilinear:
		return "bilinear"
	case Nearest:
		return "nearest"
	case ApproxBilinear:
		return "approx-bilinear"
	case CatmullRom:
		return "catmull-rom"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses a mode name as returned by String. Matching ignores case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bilinear", "":
		return Bilinear, nil
	case "nearest":
		return Nearest, nil
	case "approx-bilinear", "approxbilinear":
		return ApproxBilinear, nil
	case "catmull-rom", "catmullrom", "bicubic":
		return CatmullRom, nil
	default:
		return Bilinear, fmt.Errorf("resample: unknown interpolation %q", s)
	}
}

func (m Mode) interpolator() draw.Interpolator {
	switch m {
	case Nearest:
		return draw.NearestNeighbor
	case ApproxBilinear:
		return draw.ApproxBiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// Scale resamples src (sw x sh) into dst (dw x dh). Equal sizes copy the
// pixels exactly. Empty sizes are a no-op.
func Scale(dst []uint32, dw, dh int, src []uint32, sw, sh int, m Mode) {
	if dw <= 0 || dh <= 0 || sw <= 0 || sh <= 0 {
		return
	}
	if dw == sw && dh == sh {
		copy(dst[:dw*dh], src[:sw*sh])
		return
	}

	srcImg := ToNRGBA(src, sw, sh)
	dstImg := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	m.interpolator().Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	FromNRGBA(dst, dstImg)
}

// ToNRGBA copies a packed buffer into a new image.NRGBA.
func ToNRGBA(pix []uint32, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x, p := range pix[y*w : (y+1)*w] {
			o := x * 4
			row[o+0] = uint8(p >> 16)
			row[o+1] = uint8(p >> 8)
			row[o+2] = uint8(p)
			row[o+3] = uint8(p >> 24)
		}
	}
	return img
}

// FromNRGBA copies img into dst, which must hold Dx*Dy pixels.
func FromNRGBA(dst []uint32, img *image.NRGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+w*4]
		out := dst[y*w : (y+1)*w]
		for x := range out {
			o := x * 4
			out[x] = uint32(row[o+3])<<24 | uint32(row[o+0])<<16 | uint32(row[o+1])<<8 | uint32(row[o+2])
		}
	}
}
