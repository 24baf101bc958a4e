package vga

import "image/color"

// Color is a display palette entry. Each channel is a 6-bit value.
type Color struct {
	R, G, B uint8
}

func widen(c uint8) uint32 {
	c &= 0x3f
	v := uint32(c<<2 | c>>4)
	return v | v<<8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return widen(c.R), widen(c.G), widen(c.B), 0xffff
}

// Palette is the set of colors chosen for a single photo. Entry i is shown
// using display index PhotoBase+i.
type Palette [PhotoColors]Color

// Colors returns the full display palette with p loaded into the upper 192
// entries.
func (p *Palette) Colors() color.Palette {
	cp := make(color.Palette, 0, NumColors)
	for _, c := range low {
		cp = append(cp, c)
	}
	for _, c := range p {
		cp = append(cp, c)
	}
	return cp
}

var low = func() (l [LowColors]Color) {
	levels := [4]uint8{0x00, 0x15, 0x2a, 0x3f}
	for i := range l {
		l[i] = Color{levels[i>>4&3], levels[i>>2&3], levels[i&3]}
	}
	return
}()

// Low returns the fixed palette entries used by object images. Entry
// r<<4|g<<2|b holds the 2:2:2 color with those channel values.
func Low() [LowColors]Color {
	return low
}

// LowIndex returns the fixed palette index nearest to c by keeping the top
// two bits of each channel.
func LowIndex(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return uint8(r>>14<<4 | g>>14<<2 | b>>14)
}

// At returns the color shown for display index i when p is loaded.
func (p *Palette) At(i uint8) Color {
	if i < PhotoBase {
		return low[i]
	}
	return p[i-PhotoBase]
}

// Model converts any color to a Color by keeping the top six bits of each
// channel.
var Model = color.ModelFunc(model)

func model(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 10), uint8(g >> 10), uint8(b >> 10)}
}
