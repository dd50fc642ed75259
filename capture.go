package backdrop

import (
	"errors"
	"fmt"
	"image"
)

// ErrSourceUnavailable is returned by a Capturer whose surface has no
// pixels yet. Blurrer.BlurCapture treats it as "nothing to blur".
var ErrSourceUnavailable = errors.New("backdrop: source unavailable")

// Capturer produces the pixels to blur, typically from a live surface.
type Capturer interface {
	Capture() (*Pixmap, error)
}

// CaptureFunc adapts an ordinary function to the Capturer interface.
type CaptureFunc func() (*Pixmap, error)

// Capture calls f.
func (f CaptureFunc) Capture() (*Pixmap, error) {
	return f()
}

// RGBASource is implemented by render targets that expose their backing
// image, such as a pixmap-backed surface.
type RGBASource interface {
	Image() *image.RGBA
}

// SurfaceCapturer captures the current contents of s. A nil or empty
// backing image is reported as ErrSourceUnavailable.
func SurfaceCapturer(s RGBASource) Capturer {
	return CaptureFunc(func() (*Pixmap, error) {
		img := s.Image()
		if img == nil || img.Bounds().Empty() {
			return nil, ErrSourceUnavailable
		}
		return FromImage(img), nil
	})
}

// ImageCapturer captures a fixed image.
func ImageCapturer(img image.Image) Capturer {
	return CaptureFunc(func() (*Pixmap, error) {
		if img == nil {
			return nil, ErrSourceUnavailable
		}
		return FromImage(img), nil
	})
}

// BlurCapture captures from c and blurs the result.
//
// A capturer that yields no pixels, or fails with ErrSourceUnavailable,
// produces (nil, nil). Other capture errors are returned wrapped.
func (b *Blurrer) BlurCapture(c Capturer) (*Pixmap, error) {
	src, err := c.Capture()
	if errors.Is(err, ErrSourceUnavailable) || (err == nil && src.Empty()) {
		Logger().Debug("backdrop: capture produced no pixels")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("backdrop: capture: %w", err)
	}
	return b.Blur(src)
}
