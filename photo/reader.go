package photo

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
	ErrNotEnough = errors.New("photo: not enough image data")
	// ErrTooLarge is returned when the header declares a photo larger
	// than MaxWidth × MaxHeight
	ErrTooLarge = errors.New("photo: image too large")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func readHeader(r io.Reader) (int, int, error) {
	var tmp [headerSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return 0, 0, ErrNotEnough
		}
		return 0, 0, err
	}

	width := int(binary.LittleEndian.Uint16(tmp[0:]))
	height := int(binary.LittleEndian.Uint16(tmp[2:]))
	if width > MaxWidth || height > MaxHeight {
		return 0, 0, ErrTooLarge
	}

	return width, height, nil
}

// scanner yields the pixels of a photo one row at a time in file order,
// bottom row first.
type scanner interface {
	// rewind returns to the first row
	rewind() error
	// scan fills row with the next row of pixels
	scan(row []uint16) error
}

type fileScanner struct {
	r     io.ReadSeeker
	start int64
	tmp   []byte
}

func (s *fileScanner) rewind() error {
	_, err := s.r.Seek(s.start, io.SeekStart)
	return err
}

func (s *fileScanner) scan(row []uint16) error {
	b := s.tmp[:len(row)<<1]
	if err := readFull(s.r, b); err != nil {
		return err
	}
	for i := range row {
		row[i] = binary.LittleEndian.Uint16(b[i<<1:])
	}
	return nil
}

// quantize makes two passes over s. The first only counts colors, the
// second assigns each pixel its palette entry once the palette is final.
func quantize(width, height int, s scanner) (*Photo, error) {
	q := newQuantizer()
	row := make([]uint16, width)

	for y := 0; y < height; y++ {
		if err := s.scan(row); err != nil {
			return nil, err
		}
		for _, px := range row {
			q.add(px)
		}
	}

	p := &Photo{
		Palette: q.palette(),
		Pix:     make([]uint8, width*height),
		width:   width,
		height:  height,
	}

	if err := s.rewind(); err != nil {
		return nil, err
	}

	// Loop over rows from bottom to top
	for y := height - 1; y >= 0; y-- {
		if err := s.scan(row); err != nil {
			return nil, err
		}
		for x, px := range row {
			p.Pix[y*width+x] = q.index(px)
		}
	}

	return p, nil
}

// Decode reads a photo from r, choosing its palette and mapping every pixel
// onto it. The pixel data is read twice so r must be able to seek back to
// where the pixel data starts.
func Decode(r io.ReadSeeker) (*Photo, error) {
	width, height, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	p, err := quantize(width, height, &fileScanner{
		r:     r,
		start: start,
		tmp:   make([]byte, width<<1),
	})
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrNotEnough
		}
		return nil, err
	}

	return p, nil
}

// DecodeConfig returns the color model and dimensions of a photo without
// decoding the pixels. The photo colors are not known at this point so only
// the fixed entries of the color model are meaningful.
func DecodeConfig(r io.Reader) (image.Config, error) {
	width, height, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	var p vga.Palette
	return image.Config{
		ColorModel: p.Colors(),
		Width:      width,
		Height:     height,
	}, nil
}

// Load decodes the photo stored in file.
func Load(file string) (*Photo, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
