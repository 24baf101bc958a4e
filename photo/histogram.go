package photo

import (
	"sort"

	"github.com/bodgit/roomview/vga"
)

const (
	fineBuckets   = 1 << 12
	coarseBuckets = 1 << 6
)

type bucket struct {
	red, green, blue uint32
	count            uint32
	key              uint16
}

func (b *bucket) add(o *bucket) {
	b.red += o.red
	b.green += o.green
	b.blue += o.blue
	b.count += o.count
}

func (b *bucket) mean() vga.Color {
	return vga.Color{
		R: uint8(b.red / b.count),
		G: uint8(b.green / b.count),
		B: uint8(b.blue / b.count),
	}
}

type byCount []bucket

func (b byCount) Len() int {
	return len(b)
}

func (b byCount) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func (b byCount) Less(i, j int) bool {
	return b[i].count < b[j].count
}

// Split a 5:6:5 pixel into 6-bit channels
func channels(px uint16) (r, g, b uint32) {
	return uint32(px>>11) << 1, uint32(px>>5) & 0x3f, uint32(px&0x1f) << 1
}

// RRRRGGGGBBBB from the top 4 bits of each channel
func fineKey(r, g, b uint32) uint16 {
	return uint16(r>>2<<8 | g>>2<<4 | b>>2)
}

// RRGGBB from the top 2 bits of each channel
func coarseKey(r, g, b uint32) uint8 {
	return uint8(r>>4<<4 | g>>4<<2 | b>>4)
}

// Drop the bottom 2 bits of each channel in a fine key
func fineToCoarse(k uint16) uint8 {
	return uint8(k>>10<<4 | k>>6&0x3<<2 | k>>2&0x3)
}

// quantizer holds the histograms for a single photo. The fine histogram
// must have seen every pixel before palette is called and palette must be
// called before index.
type quantizer struct {
	fine   [fineBuckets]bucket
	coarse [coarseBuckets]bucket

	// Rank of each fine key within the top FineColors, or -1
	rank [fineBuckets]int16
}

func newQuantizer() *quantizer {
	q := new(quantizer)
	for i := range q.fine {
		q.fine[i].key = uint16(i)
		q.rank[i] = -1
	}
	for i := range q.coarse {
		q.coarse[i].key = uint16(i)
	}
	return q
}

func (q *quantizer) add(px uint16) {
	r, g, b := channels(px)
	f := &q.fine[fineKey(r, g, b)]
	f.red += r
	f.green += g
	f.blue += b
	f.count++
}

func (q *quantizer) palette() (p vga.Palette) {
	// Most frequent first. Order among equal counts is unspecified
	sort.Sort(sort.Reverse(byCount(q.fine[:])))

	for i := range q.fine[:FineColors] {
		f := &q.fine[i]
		if f.count == 0 {
			continue
		}
		p[i] = f.mean()
		q.rank[f.key] = int16(i)
	}

	for i := range q.fine[FineColors:] {
		f := &q.fine[FineColors+i]
		q.coarse[fineToCoarse(f.key)].add(f)
	}

	for i := range q.coarse {
		if c := &q.coarse[i]; c.count != 0 {
			p[FineColors+i] = c.mean()
		}
	}

	return
}

func (q *quantizer) index(px uint16) uint8 {
	r, g, b := channels(px)
	if k := q.rank[fineKey(r, g, b)]; k >= 0 {
		return uint8(vga.PhotoBase + int(k))
	}
	return vga.PhotoBase + FineColors + coarseKey(r, g, b)
}
