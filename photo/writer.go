package photo

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"
)

// RGB565 is a color packed as RRRRRGGGGGGBBBBB, the pixel format of a photo
// file.
type RGB565 uint16

// RGBA implements the color.Color interface.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5, g6, b5 := uint32(c>>11), uint32(c>>5&0x3f), uint32(c&0x1f)
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return r | r<<8, g | g<<8, b | b<<8, 0xffff
}

// RGB565Model converts any color to RGB565 by truncating each channel.
var RGB565Model = color.ModelFunc(rgb565Model)

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565(r>>11<<11 | g>>10<<5 | b>>11)
}

// Source is an undecoded photo held in memory, the top row first.
type Source struct {
	Pix  []RGB565
	Rect image.Rectangle
}

// ColorModel returns RGB565Model.
func (s *Source) ColorModel() color.Model {
	return RGB565Model
}

// Bounds returns the dimensions of the photo.
func (s *Source) Bounds() image.Rectangle {
	return s.Rect
}

// At returns the color of the pixel at (x, y).
func (s *Source) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(s.Rect)) {
		return RGB565(0)
	}
	return s.Pix[(y-s.Rect.Min.Y)*s.Rect.Dx()+x-s.Rect.Min.X]
}

// DecodeSource reads a photo file without reducing its colors.
func DecodeSource(r io.Reader) (*Source, error) {
	width, height, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	s := &Source{
		Pix:  make([]RGB565, width*height),
		Rect: image.Rect(0, 0, width, height),
	}

	tmp := make([]byte, width<<1)
	for y := height - 1; y >= 0; y-- {
		if err := readFull(r, tmp); err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil, ErrNotEnough
			}
			return nil, err
		}
		for x := 0; x < width; x++ {
			s.Pix[y*width+x] = RGB565(binary.LittleEndian.Uint16(tmp[x<<1:]))
		}
	}

	return s, nil
}

type imageScanner struct {
	m image.Image
	y int
}

func (s *imageScanner) rewind() error {
	s.y = s.m.Bounds().Max.Y - 1
	return nil
}

func (s *imageScanner) scan(row []uint16) error {
	b := s.m.Bounds()
	if s.y < b.Min.Y {
		return io.ErrUnexpectedEOF
	}
	for x := range row {
		row[x] = uint16(rgb565Model(s.m.At(b.Min.X+x, s.y)).(RGB565))
	}
	s.y--
	return nil
}

// New reduces m to a photo exactly as Decode would if m were first written
// out with Encode.
func New(m image.Image) (*Photo, error) {
	b := m.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		return nil, ErrTooLarge
	}

	s := &imageScanner{m: m}
	if err := s.rewind(); err != nil {
		return nil, err
	}

	return quantize(b.Dx(), b.Dy(), s)
}

// Encode writes the Image m to w in photo format. Colors are truncated to
// 5:6:5.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		return ErrTooLarge
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint16(hdr[0:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(hdr[2:], uint16(b.Dy()))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	tmp := make([]byte, b.Dx()<<1)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := rgb565Model(m.At(x, y)).(RGB565)
			binary.LittleEndian.PutUint16(tmp[(x-b.Min.X)<<1:], uint16(c))
		}
		if _, err := w.Write(tmp); err != nil {
			return err
		}
	}

	return nil
}
