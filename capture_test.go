package backdrop

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// fakeSurface mimics a render target exposing its backing image.
type fakeSurface struct {
	img *image.RGBA
}

func (s *fakeSurface) Image() *image.RGBA { return s.img }

func TestBlurCapture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}

	b := softwareBlurrer(WithRadius(2), WithWorkers(1))
	defer b.Close()

	tests := []struct {
		name string
		c    Capturer
	}{
		{"surface", SurfaceCapturer(&fakeSurface{img: img})},
		{"image", ImageCapturer(img)},
		{"func", CaptureFunc(func() (*Pixmap, error) { return FromImage(img), nil })},
	}

	want := mustBlur(t, b, FromImage(img))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BlurCapture(tt.c)
			if err != nil {
				t.Fatalf("BlurCapture() = %v", err)
			}
			if !got.Equal(want) {
				t.Error("BlurCapture result differs from Blur")
			}
		})
	}
}

func TestBlurCaptureNoSource(t *testing.T) {
	b := softwareBlurrer(WithRadius(2))
	defer b.Close()

	tests := []struct {
		name string
		c    Capturer
	}{
		{"surface without backing image", SurfaceCapturer(&fakeSurface{})},
		{"surface with empty image", SurfaceCapturer(&fakeSurface{img: image.NewRGBA(image.Rectangle{})})},
		{"nil image", ImageCapturer(nil)},
		{"capturer returns nil", CaptureFunc(func() (*Pixmap, error) { return nil, nil })},
		{"capturer reports unavailable", CaptureFunc(func() (*Pixmap, error) {
			return nil, ErrSourceUnavailable
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.BlurCapture(tt.c)
			if err != nil || out != nil {
				t.Errorf("BlurCapture() = %v, %v; want nil, nil", out, err)
			}
		})
	}
}

func TestBlurCaptureError(t *testing.T) {
	boom := errors.New("surface lost")
	b := softwareBlurrer(WithRadius(2))
	defer b.Close()

	_, err := b.BlurCapture(CaptureFunc(func() (*Pixmap, error) { return nil, boom }))
	if !errors.Is(err, boom) {
		t.Errorf("BlurCapture() error = %v, want wrapped %v", err, boom)
	}
}
