package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/vga"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

type report struct {
	width, height int
	fine, coarse  int

	mean, stdDev       float64
	refMean, refStdDev float64
}

func (r *report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Size:         %dx%d\n", r.width, r.height)
	fmt.Fprintf(&b, "Fine pixels:  %d\n", r.fine)
	fmt.Fprintf(&b, "Coarse pixels: %d\n", r.coarse)
	fmt.Fprintf(&b, "Error:        %.3f (σ %.3f)\n", r.mean, r.stdDev)
	fmt.Fprintf(&b, "Median cut:   %.3f (σ %.3f)\n", r.refMean, r.refStdDev)
	return b.String()
}

func deltaE(a, b color.Color) float64 {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	return ca.DistanceCIEDE2000(cb)
}

func distances(src, m image.Image) []float64 {
	b := src.Bounds()
	d := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d = append(d, deltaE(src.At(x, y), m.At(x, y)))
		}
	}
	return d
}

// Reduce src to the same number of colors with a median cut palette limited
// to what the display can show
func medianCut(src image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, vga.PhotoColors), src)
	for i, c := range p {
		p[i] = vga.Model.Convert(c)
	}

	b := src.Bounds()
	m := image.NewPaletted(b, p)
	draw.Draw(m, b, src, b.Min, draw.Src)
	return m
}

func inspect(file string) (*report, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := photo.DecodeSource(f)
	if err != nil {
		return nil, err
	}

	p, err := photo.New(src)
	if err != nil {
		return nil, err
	}

	r := &report{
		width:  p.Width(),
		height: p.Height(),
	}

	for _, i := range p.Pix {
		if photo.Fine(i) {
			r.fine++
		} else {
			r.coarse++
		}
	}

	if len(p.Pix) == 0 {
		return r, nil
	}

	r.mean, r.stdDev = stat.MeanStdDev(distances(src, p), nil)
	r.refMean, r.refStdDev = stat.MeanStdDev(distances(src, medianCut(src)), nil)

	return r, nil
}
