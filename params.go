package backdrop

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/backdrop/internal/resample"
	"github.com/gogpu/backdrop/internal/stackblur"
)

const (
	// DefaultRadius is the blur radius used when none is configured.
	DefaultRadius = 25

	// DefaultSampling keeps the working buffer at full resolution.
	DefaultSampling = 1

	// MaxRadius is the largest supported radius. Larger radii are clamped.
	MaxRadius = stackblur.MaxRadius
)

var (
	// ErrNegativeRadius is returned when Params.Radius is below zero.
	ErrNegativeRadius = errors.New("backdrop: radius must not be negative")

	// ErrInvalidSampling is returned when Params.Sampling is below zero.
	ErrInvalidSampling = errors.New("backdrop: invalid sampling factor")

	// ErrInvalidDimensions is returned for negative pixmap dimensions.
	ErrInvalidDimensions = errors.New("backdrop: invalid dimensions")

	// ErrDimensionMismatch is returned when a pixel slice does not hold
	// width*height samples.
	ErrDimensionMismatch = errors.New("backdrop: pixel count does not match dimensions")
)

// Interpolation selects the filter used to downsample the source and to
// upsample the blurred result.
type Interpolation = resample.Mode

// Interpolation modes.
const (
	Bilinear       = resample.Bilinear
	Nearest        = resample.Nearest
	ApproxBilinear = resample.ApproxBilinear
	CatmullRom     = resample.CatmullRom
)

// ParseInterpolation parses an interpolation name such as "bilinear" or
// "catmull-rom".
func ParseInterpolation(s string) (Interpolation, error) {
	return resample.ParseMode(s)
}

// Params describes one blur.
type Params struct {
	// Radius is the blur half-width in working pixels. Zero disables the
	// blur; values above MaxRadius are clamped.
	Radius int

	// Sampling is the integer downscale factor applied before blurring and
	// reversed afterwards. Zero means DefaultSampling.
	Sampling int

	// Tint is composited source-atop over the working buffer before blurring.
	// Transparent disables tinting.
	Tint Color

	// Excluded is kept sharp: after blurring and rescaling, pixels inside it
	// are restored from the untinted source at the output size. Coordinates
	// are in output pixels. The zero rectangle excludes nothing.
	Excluded image.Rectangle

	// Width and Height are the output size. Zero means the source size.
	Width, Height int

	// Interpolation is used for both rescaling steps.
	Interpolation Interpolation
}

// DefaultParams returns the parameters used by NewBlurrer without options.
func DefaultParams() Params {
	return Params{
		Radius:   DefaultRadius,
		Sampling: DefaultSampling,
		Tint:     Transparent,
	}
}

// Validate reports programming errors in p.
func (p Params) Validate() error {
	if p.Radius < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRadius, p.Radius)
	}
	if p.Sampling < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampling, p.Sampling)
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: output %dx%d", ErrInvalidDimensions, p.Width, p.Height)
	}
	return nil
}

// sampling returns the effective downscale factor.
func (p Params) sampling() int {
	if p.Sampling == 0 {
		return DefaultSampling
	}
	return p.Sampling
}

// outputSize resolves the output size against the source size.
func (p Params) outputSize(src *Pixmap) (w, h int) {
	w, h = p.Width, p.Height
	if w == 0 {
		w = src.width
	}
	if h == 0 {
		h = src.height
	}
	return w, h
}

// excludedRect clips the excluded rectangle to the output bounds.
func (p Params) excludedRect(outW, outH int) image.Rectangle {
	return p.Excluded.Intersect(image.Rect(0, 0, outW, outH))
}
