package backdrop

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	_ "image/jpeg" // register JPEG decoder for LoadImage

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder for LoadImage
	_ "golang.org/x/image/tiff" // register TIFF decoder for LoadImage
	_ "golang.org/x/image/webp" // register WebP decoder for LoadImage

	"github.com/gogpu/backdrop/internal/resample"
)

// Pixmap represents a rectangular pixel buffer.
//
// Pixels are stored row by row, one packed 0xAARRGGBB sample per pixel,
// so len(Pixels()) == Width()*Height() always holds.
type Pixmap struct {
	width  int
	height int
	pix    []uint32
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
// Negative dimensions produce an empty pixmap.
func NewPixmap(width, height int) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// PixmapFromPixels wraps pix without copying it.
func PixmapFromPixels(width, height int, pix []uint32) (*Pixmap, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrDimensionMismatch, len(pix), width, height)
	}
	return &Pixmap{width: width, height: height, pix: pix}, nil
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Pixels returns the packed pixel data. The slice is shared with p.
func (p *Pixmap) Pixels() []uint32 {
	return p.pix
}

// Empty reports whether p is nil or has zero area.
func (p *Pixmap) Empty() bool {
	return p == nil || p.width <= 0 || p.height <= 0
}

// Pixel returns the color at (x, y), or Transparent outside the pixmap.
func (p *Pixmap) Pixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	return Color(p.pix[y*p.width+x])
}

// SetPixel sets the color of a single pixel.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.pix[y*p.width+x] = uint32(c)
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c Color) {
	for i := range p.pix {
		p.pix[i] = uint32(c)
	}
}

// Clone returns a deep copy of p.
func (p *Pixmap) Clone() *Pixmap {
	return &Pixmap{
		width:  p.width,
		height: p.height,
		pix:    append([]uint32(nil), p.pix...),
	}
}

// CopyRect copies the pixels of src inside r onto p at the same
// coordinates. r is clipped to both pixmaps.
func (p *Pixmap) CopyRect(src *Pixmap, r image.Rectangle) {
	r = r.Intersect(p.Bounds()).Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(p.pix[y*p.width+r.Min.X:y*p.width+r.Max.X], src.pix[y*src.width+r.Min.X:y*src.width+r.Max.X])
	}
}

// Equal reports whether p and o have the same dimensions and pixels.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i, v := range p.pix {
		if o.pix[i] != v {
			return false
		}
	}
	return true
}

// ToNRGBA converts the pixmap to an image.NRGBA.
func (p *Pixmap) ToNRGBA() *image.NRGBA {
	return resample.ToNRGBA(p.pix, p.width, p.height)
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())
	if pm.Empty() {
		return pm
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, pm.width, pm.height))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	resample.FromNRGBA(pm.pix, nrgba)
	return pm
}

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file into a pixmap.
func LoadImage(path string) (*Pixmap, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToNRGBA()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.Pixel(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
