/*
Package photo implements the room photo decoder and encoder.

A photo file starts with a 4 byte header holding the width and height as
little-endian 16-bit values. It is followed by width × height pixels, each a
little-endian 16-bit value packed as RRRRRGGGGGGBBBBB. The rows are stored
from the bottom of the image to the top with no padding.

Decoding reduces the photo to 192 colors. The 128 most frequent colors, as
measured at 4 bits per channel, each get their own palette entry. Every
other color is merged into one of 64 entries measured at 2 bits per channel.
Each palette entry is the average of the colors merged into it.
*/
package photo

import (
	"image"
	"image/color"

	"github.com/bodgit/roomview/vga"
)

const (
	// MaxWidth is the widest photo that can be decoded
	MaxWidth = 1024
	// MaxHeight is the tallest photo that can be decoded
	MaxHeight = 1024

	// FineColors is the number of palette entries given to the most
	// frequent colors
	FineColors = 128
	// CoarseColors is the number of palette entries shared by every
	// other color
	CoarseColors = vga.PhotoColors - FineColors

	headerSize = 4
)

// Photo is a room photo reduced to the display palette. Pix holds one
// display index per pixel starting from the top left, each in the range
// vga.PhotoBase to vga.NumColors-1.
type Photo struct {
	Palette vga.Palette
	Pix     []uint8

	width, height int
}

// Width returns the width of the photo in pixels.
func (p *Photo) Width() int {
	return p.width
}

// Height returns the height of the photo in pixels.
func (p *Photo) Height() int {
	return p.height
}

// Row returns the pixels of row y, or nil if y is outside the photo.
func (p *Photo) Row(y int) []uint8 {
	if y < 0 || y >= p.height {
		return nil
	}
	return p.Pix[y*p.width : (y+1)*p.width]
}

// ColorIndexAt returns the display index of the pixel at (x, y).
func (p *Photo) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return 0
	}
	return p.Pix[y*p.width+x]
}

// ColorModel returns the full display palette with the photo colors loaded.
func (p *Photo) ColorModel() color.Model {
	return p.Palette.Colors()
}

// Bounds returns the photo dimensions.
func (p *Photo) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At returns the color of the pixel at (x, y).
func (p *Photo) At(x, y int) color.Color {
	return p.Palette.At(p.ColorIndexAt(x, y))
}

// Fine reports whether display index i selects one of the palette entries
// reserved for the most frequent colors.
func Fine(i uint8) bool {
	return i >= vga.PhotoBase && i < vga.PhotoBase+FineColors
}
