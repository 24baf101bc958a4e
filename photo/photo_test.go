package photo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/bodgit/roomview/vga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Build a photo file from pixels given in file order, bottom row first
func raw(width, height int, pixels []uint16) []byte {
	b := new(bytes.Buffer)
	binary.Write(b, binary.LittleEndian, [2]uint16{uint16(width), uint16(height)})
	binary.Write(b, binary.LittleEndian, pixels)
	return b.Bytes()
}

// Pack 4-bit channels into a 5:6:5 pixel
func pack4(r, g, b uint16) uint16 {
	return r<<1<<11 | g<<2<<5 | b<<1
}

func TestChannels(t *testing.T) {
	r, g, b := channels(0xffff)
	assert.Equal(t, uint32(0x3e), r)
	assert.Equal(t, uint32(0x3f), g)
	assert.Equal(t, uint32(0x3e), b)

	r, g, b = channels(10<<11 | 33<<5 | 7)
	assert.Equal(t, uint32(20), r)
	assert.Equal(t, uint32(33), g)
	assert.Equal(t, uint32(14), b)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, uint16(0xfff), fineKey(0x3f, 0x3f, 0x3f))
	assert.Equal(t, uint16(0x5a3), fineKey(0x14, 0x28, 0x0c))
	assert.Equal(t, uint8(0x3f), coarseKey(0x3f, 0x3f, 0x3f))
	assert.Equal(t, uint8(0x18), coarseKey(0x14, 0x28, 0x0c))

	// Both ways of reaching the coarse key must agree for every color
	for px := 0; px < 1<<16; px++ {
		r, g, b := channels(uint16(px))
		require.Equal(t, coarseKey(r, g, b), fineToCoarse(fineKey(r, g, b)))
	}
}

func TestDecodeSingleColor(t *testing.T) {
	const width, height = 7, 5

	px := uint16(10<<11 | 33<<5 | 7)
	pixels := make([]uint16, width*height)
	for i := range pixels {
		pixels[i] = px
	}

	p, err := Decode(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, width, p.Width())
	assert.Equal(t, height, p.Height())

	want := vga.Color{R: 20, G: 33, B: 14}
	var found int
	for _, c := range p.Palette {
		if c == want {
			found++
		}
	}
	assert.Equal(t, 1, found)
	assert.Equal(t, want, p.Palette[0])

	for _, i := range p.Pix {
		assert.Equal(t, uint8(vga.PhotoBase), i)
	}
}

func TestDecodeTwoByTwo(t *testing.T) {
	pixels := []uint16{
		pack4(15, 0, 0), pack4(0, 15, 0),
		pack4(0, 0, 15), pack4(15, 15, 15),
	}

	p, err := Decode(bytes.NewReader(raw(2, 2, pixels)))
	require.NoError(t, err)
	require.Len(t, p.Pix, 4)

	var nonzero int
	for _, c := range p.Palette {
		if c != (vga.Color{}) {
			nonzero++
		}
	}
	assert.GreaterOrEqual(t, nonzero, 4)

	seen := make(map[uint8]bool)
	for _, i := range p.Pix {
		assert.GreaterOrEqual(t, i, uint8(vga.PhotoBase))
		assert.False(t, seen[i])
		seen[i] = true
	}
}

func TestDecodeRowOrder(t *testing.T) {
	bottom, top := pack4(15, 0, 0), pack4(0, 0, 15)

	p, err := Decode(bytes.NewReader(raw(1, 2, []uint16{bottom, top})))
	require.NoError(t, err)

	assert.Equal(t, vga.Color{R: 0, G: 0, B: 0x3c}, p.Palette.At(p.ColorIndexAt(0, 0)))
	assert.Equal(t, vga.Color{R: 0x3c, G: 0, B: 0}, p.Palette.At(p.ColorIndexAt(0, 1)))
	assert.Equal(t, p.Row(1), p.Pix[1:2])
	assert.Nil(t, p.Row(2))
}

func TestDecodeFewColorsAreFine(t *testing.T) {
	const width, height = 40, 30

	rng := rand.New(rand.NewSource(1))
	colors := make([]uint16, 100)
	for i := range colors {
		colors[i] = pack4(uint16(i%16), uint16(i/16), uint16(i%7))
	}

	pixels := make([]uint16, width*height)
	for i := range pixels {
		// Vary the bottom bits so the buckets average several colors
		pixels[i] = colors[rng.Intn(len(colors))] | uint16(rng.Intn(2))<<5
	}

	p, err := Decode(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)

	for _, i := range p.Pix {
		assert.True(t, Fine(i))
	}
}

func TestDecodeFrequentColorsAreFine(t *testing.T) {
	var pixels []uint16
	frequent := make(map[uint16]bool)

	// 100 colors seen five times each and 200 colors seen once
	for i := 0; i < 300; i++ {
		px := pack4(uint16(i&0xf), uint16(i>>4&0xf), uint16(i>>8))
		n := 1
		if i < 100 {
			n = 5
			frequent[px] = true
		}
		for j := 0; j < n; j++ {
			pixels = append(pixels, px)
		}
	}
	for len(pixels)%10 != 0 {
		pixels = append(pixels, pack4(0, 0, 0))
		frequent[pack4(0, 0, 0)] = true
	}

	width := 10
	height := len(pixels) / width

	src, err := DecodeSource(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)

	p, err := Decode(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)

	fine := make(map[uint8]bool)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := p.ColorIndexAt(x, y)
			if frequent[uint16(src.At(x, y).(RGB565))] {
				assert.True(t, Fine(i))
			}
			if Fine(i) {
				fine[i] = true
			}
		}
	}
	assert.Len(t, fine, FineColors)
}

func TestDecodeRoundTrip(t *testing.T) {
	const width, height = 64, 48

	rng := rand.New(rand.NewSource(2))
	pixels := make([]uint16, width*height)
	for i := range pixels {
		// Bias towards a small set of colors so both halves of the
		// palette are used
		if rng.Intn(2) == 0 {
			pixels[i] = pack4(uint16(rng.Intn(4)), uint16(rng.Intn(4)), uint16(rng.Intn(4)))
		} else {
			pixels[i] = uint16(rng.Intn(1 << 16))
		}
	}

	src, err := DecodeSource(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)

	p, err := Decode(bytes.NewReader(raw(width, height, pixels)))
	require.NoError(t, err)

	var coarse int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := channels(uint16(src.At(x, y).(RGB565)))
			i := p.ColorIndexAt(x, y)
			c := p.Palette.At(i)

			shift := uint32(2)
			if !Fine(i) {
				shift = 4
				coarse++
			}
			assert.Equal(t, r>>shift, uint32(c.R)>>shift)
			assert.Equal(t, g>>shift, uint32(c.G)>>shift)
			assert.Equal(t, b>>shift, uint32(c.B)>>shift)
		}
	}
	assert.NotZero(t, coarse)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{
			name: "empty file",
			data: []byte{},
			err:  ErrNotEnough,
		},
		{
			name: "short header",
			data: []byte{0x02, 0x00, 0x02},
			err:  ErrNotEnough,
		},
		{
			name: "too wide",
			data: raw(MaxWidth+1, 1, nil),
			err:  ErrTooLarge,
		},
		{
			name: "too tall",
			data: raw(1, MaxHeight+1, nil),
			err:  ErrTooLarge,
		},
		{
			name: "truncated pixels",
			data: raw(2, 2, []uint16{1, 2, 3}),
			err:  ErrNotEnough,
		},
		{
			name: "odd trailing byte",
			data: append(raw(2, 2, []uint16{1, 2, 3}), 0x00),
			err:  ErrNotEnough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(bytes.NewReader(tt.data))
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, tt.err))

			s, err := DecodeSource(bytes.NewReader(tt.data))
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

var errSeek = errors.New("seek failed")

// failSeeker fails the nth call to Seek, counting from 1
type failSeeker struct {
	*bytes.Reader
	n int
}

func (s *failSeeker) Seek(offset int64, whence int) (int64, error) {
	if s.n--; s.n == 0 {
		return 0, errSeek
	}
	return s.Reader.Seek(offset, whence)
}

func TestDecodeSeekErrors(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{
			name: "finding pixel data",
			n:    1,
		},
		{
			name: "returning to pixel data",
			n:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(&failSeeker{bytes.NewReader(raw(2, 1, []uint16{1, 2})), tt.n})
			assert.Nil(t, p)
			assert.Equal(t, errSeek, err)
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(bytes.NewReader(raw(3, 4, nil)))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Width)
	assert.Equal(t, 4, c.Height)
	assert.Len(t, c.ColorModel.(color.Palette), vga.NumColors)
}

func TestEncode(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 3, 2))
	m.Set(0, 0, color.RGBA{0xff, 0x00, 0x00, 0xff})
	m.Set(2, 1, color.RGBA{0x00, 0x00, 0xff, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, 4+3*2*2, b.Len())

	s, err := DecodeSource(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, RGB565(0xf800), s.At(0, 0))
	assert.Equal(t, RGB565(0x001f), s.At(2, 1))
	assert.Equal(t, RGB565(0), s.At(1, 1))

	assert.Equal(t, ErrTooLarge, Encode(b, image.NewRGBA(image.Rect(0, 0, MaxWidth+1, 1))))
}

func TestNewMatchesDecode(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := image.NewRGBA(image.Rect(10, 20, 60, 50))
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			m.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(4) * 64), 0xff})
		}
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))

	decoded, err := Decode(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)

	quantized, err := New(m)
	require.NoError(t, err)

	assert.Equal(t, decoded, quantized)
	assert.Equal(t, image.Rect(0, 0, 50, 30), quantized.Bounds())
}

func TestRGB565(t *testing.T) {
	r, g, b, a := RGB565(0xffff).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
	assert.Equal(t, uint32(0xffff), a)

	assert.Equal(t, RGB565(0x07e0), RGB565Model.Convert(color.RGBA{0x00, 0xff, 0x00, 0xff}))

	// Converting back and forth is lossless once truncated
	for px := 0; px < 1<<16; px += 97 {
		c := RGB565(px)
		require.Equal(t, c, RGB565Model.Convert(c))
		require.Equal(t, c, RGB565Model.Convert(color.RGBA64Model.Convert(c)))
	}
}
