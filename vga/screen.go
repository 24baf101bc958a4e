package vga

import (
	"image"
	"image/color"
)

// Screen is a software stand-in for the display. It keeps a copy of the
// palette registers and a framebuffer the size of the scrolling viewport.
type Screen struct {
	dac color.Palette
	fb  *image.Paletted
}

// NewScreen returns a blank screen with the fixed colors loaded and every
// photo entry set to black.
func NewScreen() *Screen {
	var p Palette
	dac := p.Colors()
	return &Screen{
		dac: dac,
		fb:  image.NewPaletted(image.Rect(0, 0, ScrollX, ScrollY), dac),
	}
}

// SetPalette loads the photo palette into the upper 192 palette registers.
func (s *Screen) SetPalette(p *Palette) error {
	for i, c := range p {
		s.dac[PhotoBase+i] = c
	}
	return nil
}

// SetRow copies a horizontal line of pixels into row y. Pixels beyond the
// edge of the screen are dropped.
func (s *Screen) SetRow(y int, line []byte) {
	if y < 0 || y >= ScrollY {
		return
	}
	copy(s.fb.Pix[y*s.fb.Stride:y*s.fb.Stride+ScrollX], line)
}

// SetColumn copies a vertical line of pixels into column x.
func (s *Screen) SetColumn(x int, line []byte) {
	if x < 0 || x >= ScrollX {
		return
	}
	for y := 0; y < ScrollY && y < len(line); y++ {
		s.fb.Pix[y*s.fb.Stride+x] = line[y]
	}
}

// Image returns the framebuffer. It shares the palette registers so a later
// SetPalette is reflected in the returned image.
func (s *Screen) Image() *image.Paletted {
	return s.fb
}
