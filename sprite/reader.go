package sprite

import (
	"encoding/binary"
	"errors"
	"image"
	"io"
	"os"

	"github.com/bodgit/roomview/vga"
)

var (
	// ErrNotEnough is returned when the file ends before every pixel has
	// been read
	ErrNotEnough = errors.New("sprite: not enough image data")
	// ErrTooLarge is returned when the header declares an image larger
	// than MaxWidth × MaxHeight
	ErrTooLarge = errors.New("sprite: image too large")
	// ErrBadPixel is returned when a pixel is neither a fixed palette
	// index nor transparent
	ErrBadPixel = errors.New("sprite: invalid pixel")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	width, height int

	image *Image
}

func (d *decoder) readHeader() error {
	var tmp [headerSize]byte
	if err := readFull(d.r, tmp[:]); err != nil {
		return err
	}

	d.width = int(binary.LittleEndian.Uint16(tmp[0:]))
	d.height = int(binary.LittleEndian.Uint16(tmp[2:]))
	if d.width > MaxWidth || d.height > MaxHeight {
		return ErrTooLarge
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return ErrNotEnough
	}

	if configOnly {
		return nil
	}

	m := &Image{
		Pix:    make([]uint8, d.width*d.height),
		width:  d.width,
		height: d.height,
	}

	// The file is stored bottom to top, memory is top to bottom
	for y := d.height - 1; y >= 0; y-- {
		if err := readFull(d.r, m.Pix[y*d.width:(y+1)*d.width]); err != nil {
			if err != io.ErrUnexpectedEOF {
				return err
			}
			return ErrNotEnough
		}
	}

	for _, px := range m.Pix {
		if px > vga.Transparent {
			return ErrBadPixel
		}
	}

	d.image = m

	return nil
}

// Decode reads an object image from r.
func Decode(r io.Reader) (*Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of an object image
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: model,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// Load decodes the object image stored in file.
func Load(file string) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
