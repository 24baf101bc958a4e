package sprite

import (
	"encoding/binary"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/roomview/vga"
)

// Encode writes the Image m to w in object image format. Pixels that are
// less than half opaque become transparent, everything else is reduced to
// the nearest fixed palette color.
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

	row := make([]byte, b.Dx())
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A < 0x80 {
				row[x-b.Min.X] = vga.Transparent
				continue
			}
			c.A = 0xff
			row[x-b.Min.X] = vga.LowIndex(c)
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
