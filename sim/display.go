//go:build !tinygo

package sim

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"tinygo.org/x/drivers/pixel"
)

var (
	pixelWhite = pixel.NewColor[pixel.RGB565BE](0xFF, 0xFF, 0xFF)
	pixelBlack = pixel.NewColor[pixel.RGB565BE](0x00, 0x00, 0x00)
)

// Display is an in-memory 128x32 panel. Drawing goes to a back buffer and
// Display copies it to the front buffer, like the ssd1306 does over I2C.
type Display struct {
	back  pixel.Image[pixel.RGB565BE]
	front pixel.Image[pixel.RGB565BE]

	frames int
	err    error
}

func NewDisplay(width, height int) *Display {
	d := &Display{
		back:  pixel.NewImage[pixel.RGB565BE](width, height),
		front: pixel.NewImage[pixel.RGB565BE](width, height),
	}
	d.back.FillSolidColor(pixelBlack)
	d.front.FillSolidColor(pixelBlack)
	return d
}

func (d *Display) Size() (x, y int16) {
	w, h := d.back.Size()
	return int16(w), int16(h)
}

// SetPixel lights the pixel for any color brighter than mid grey. The panel
// is monochrome.
func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	w, h := d.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	lit := int(c.R)+int(c.G)+int(c.B) >= 3*0x80
	if lit {
		d.back.Set(int(x), int(y), pixelWhite)
	} else {
		d.back.Set(int(x), int(y), pixelBlack)
	}
}

func (d *Display) Display() error {
	if d.err != nil {
		return d.err
	}
	w, h := d.back.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d.front.Set(x, y, d.back.Get(x, y))
		}
	}
	d.frames++
	return nil
}

func (d *Display) ClearBuffer() {
	d.back.FillSolidColor(pixelBlack)
}

// FailWith makes Display return err until called with nil.
func (d *Display) FailWith(err error) {
	d.err = err
}

// Frames is the number of frames pushed so far.
func (d *Display) Frames() int {
	return d.frames
}

// Lit reports whether the pixel at x, y is on in the last pushed frame.
func (d *Display) Lit(x, y int) bool {
	return d.front.Get(x, y) == pixelWhite
}

// Image copies the last pushed frame into an RGBA image.
func (d *Display) Image() *image.RGBA {
	w, h := d.front.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, d.front.Get(x, y).RGBA())
		}
	}
	return img
}

// WritePNG encodes the last pushed frame as PNG.
func (d *Display) WritePNG(w io.Writer) error {
	return png.Encode(w, d.Image())
}
