package sprite

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/roomview/vga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(width, height int, pixels ...byte) []byte {
	return append([]byte{byte(width), byte(width >> 8), byte(height), byte(height >> 8)}, pixels...)
}

func TestDecode(t *testing.T) {
	// Bottom row first
	m, err := Decode(bytes.NewReader(raw(3, 2,
		0x30, vga.Transparent, 0x0c,
		0x03, 0x3f, 0x00,
	)))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, []uint8{0x03, 0x3f, 0x00, 0x30, vga.Transparent, 0x0c}, m.Pix)

	assert.Equal(t, uint8(0x30), m.ColorIndexAt(0, 1))
	assert.Equal(t, uint8(vga.Transparent), m.ColorIndexAt(3, 0))
	assert.Equal(t, color.Transparent, m.At(1, 1))
	assert.Equal(t, vga.Color{R: 0x3f, G: 0x3f, B: 0x3f}, m.At(1, 0))
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
			data: []byte{0x01, 0x00},
			err:  ErrNotEnough,
		},
		{
			name: "too wide",
			data: raw(MaxWidth+1, 1),
			err:  ErrTooLarge,
		},
		{
			name: "too tall",
			data: raw(1, MaxHeight+1),
			err:  ErrTooLarge,
		},
		{
			name: "truncated pixels",
			data: raw(2, 2, 0x00, 0x01, 0x02),
			err:  ErrNotEnough,
		},
		{
			name: "photo palette index",
			data: raw(2, 1, 0x00, 0x41),
			err:  ErrBadPixel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(bytes.NewReader(tt.data))
			assert.Nil(t, m)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(bytes.NewReader(raw(MaxWidth, MaxHeight)))
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, c.Width)
	assert.Equal(t, MaxHeight, c.Height)
}

func TestEncode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 8))
	src.Set(5, 5, color.NRGBA{0xff, 0x00, 0x00, 0xff})
	src.Set(6, 5, color.NRGBA{0xff, 0xff, 0xff, 0x10})
	src.Set(8, 7, color.NRGBA{0x00, 0x80, 0xff, 0xff})
	// Partly transparent pixels keep their color
	src.Set(7, 6, color.NRGBA{0xff, 0xff, 0xff, 0x90})
	src.Set(8, 6, color.NRGBA{0x00, 0xff, 0x00, 0x80})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, src))

	m, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 3), m.Bounds())

	assert.Equal(t, uint8(0x30), m.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(vga.Transparent), m.ColorIndexAt(1, 0))
	assert.Equal(t, uint8(0x0b), m.ColorIndexAt(3, 2))
	assert.Equal(t, uint8(0x3f), m.ColorIndexAt(2, 1))
	assert.Equal(t, uint8(0x0c), m.ColorIndexAt(3, 1))
	// Untouched pixels are fully transparent
	assert.Equal(t, uint8(vga.Transparent), m.ColorIndexAt(1, 1))

	assert.Equal(t, ErrTooLarge, Encode(b, image.NewNRGBA(image.Rect(0, 0, 1, MaxHeight+1))))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "key.obj")
	require.NoError(t, os.WriteFile(file, raw(1, 1, 0x15), 0o644))

	m, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x15}, m.Pix)

	_, err = Load(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)
}
