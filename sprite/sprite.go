/*
Package sprite implements the object image decoder and encoder.

An object image uses the same 4 byte header as a photo, followed by width ×
height single byte pixels packed as 00RRGGBB, which index the fixed low
entries of the display palette. The value vga.Transparent marks a pixel that
is not drawn. As with photos the rows run from the bottom of the image to the
top with no padding.
*/
package sprite

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/vga"
)

const (
	// MaxWidth is the widest object image that can be decoded
	MaxWidth = 160
	// MaxHeight is the tallest object image that can be decoded
	MaxHeight = 100

	headerSize = 4
)

// Image is an object image. Pix holds one fixed palette index per pixel
// starting from the top left.
type Image struct {
	Pix []uint8

	width, height int
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the height of the image in pixels.
func (m *Image) Height() int {
	return m.height
}

// ColorIndexAt returns the pixel at (x, y), which is either a fixed palette
// index or vga.Transparent.
func (m *Image) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return vga.Transparent
	}
	return m.Pix[y*m.width+x]
}

// ColorModel returns the fixed palette plus a transparent entry.
func (m *Image) ColorModel() color.Model {
	return model
}

// Bounds returns the image dimensions.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At returns the color of the pixel at (x, y).
func (m *Image) At(x, y int) color.Color {
	return model[m.ColorIndexAt(x, y)]
}

var model = func() color.Palette {
	p := make(color.Palette, 0, vga.LowColors+1)
	for _, c := range vga.Low() {
		p = append(p, c)
	}
	return append(p, color.Transparent)
}()
