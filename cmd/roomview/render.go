package main

import (
	"errors"
	"image"
	"image/gif"
	"image/png"
	"log"
	"os"

	"github.com/bodgit/roomview"
	"github.com/bodgit/roomview/vga"
	"github.com/bodgit/roomview/world"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/draw"
)

var errFormat = errors.New("unknown output format")

type renderOptions struct {
	x, y    int
	scale   int
	format  string
	columns bool
}

func scale(m *image.Paletted, n int) *image.Paletted {
	if n <= 1 {
		return m
	}
	b := m.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx()*n, b.Dy()*n), m.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func render(db *world.DB, name, file string, opts renderOptions, logger *log.Logger) error {
	var encode func(*os.File, image.Image) error
	switch opts.format {
	case "png":
		encode = func(f *os.File, m image.Image) error { return png.Encode(f, m) }
	case "gif":
		encode = func(f *os.File, m image.Image) error {
			return gif.Encode(f, m, &gif.Options{NumColors: vga.NumColors})
		}
	case "qoi":
		encode = func(f *os.File, m image.Image) error { return qoi.Encode(f, m) }
	default:
		return errFormat
	}

	r, err := db.LoadRoom(name)
	if err != nil {
		return err
	}

	s := vga.NewScreen()
	v := roomview.New(s, logger)
	if err := v.SelectRoom(r); err != nil {
		return err
	}

	if opts.columns {
		v.RenderColumns(opts.x, opts.y, s)
	} else {
		v.Render(opts.x, opts.y, s)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encode(f, scale(s.Image(), opts.scale)); err != nil {
		return err
	}
	logger.Printf("Wrote \"%s\" at (%d, %d) to \"%s\"\n", name, opts.x, opts.y, file)

	return f.Close()
}
