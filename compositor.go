package roomview

import "github.com/bodgit/roomview/vga"

// FillHorizontal draws the line of len(buf) pixels whose leftmost pixel is
// at map coordinate (x, y). Anything off the edge of the photo is drawn as
// 0 and objects are drawn over the photo skipping transparent pixels.
func (v *View) FillHorizontal(x, y int, buf []byte) {
	for i := range buf {
		buf[i] = 0
	}

	if v.room == nil {
		return
	}

	if row := v.room.Photo().Row(y); row != nil {
		for i := range buf {
			if 0 <= x+i && x+i < len(row) {
				buf[i] = row[x+i]
			}
		}
	}

	for _, obj := range v.room.Objects() {
		img := obj.Image()
		objX, objY := obj.Position()

		// Is object outside of the line we're drawing?
		if y < objY || y >= objY+img.Height() || x+len(buf) <= objX || x >= objX+img.Width() {
			continue
		}

		line := img.Pix[(y-objY)*img.Width() : (y-objY+1)*img.Width()]

		// Either the line starts inside the object or the object starts
		// partway along the line
		var idx, imgX int
		if x <= objX {
			idx = objX - x
		} else {
			imgX = x - objX
		}

		for ; idx < len(buf) && imgX < len(line); idx, imgX = idx+1, imgX+1 {
			if pixel := line[imgX]; pixel != vga.Transparent {
				buf[idx] = pixel
			}
		}
	}
}

// FillVertical draws the line of len(buf) pixels whose top pixel is at map
// coordinate (x, y).
func (v *View) FillVertical(x, y int, buf []byte) {
	for i := range buf {
		buf[i] = 0
	}

	if v.room == nil {
		return
	}

	p := v.room.Photo()
	if 0 <= x && x < p.Width() {
		for i := range buf {
			buf[i] = p.ColorIndexAt(x, y+i)
		}
	}

	for _, obj := range v.room.Objects() {
		img := obj.Image()
		objX, objY := obj.Position()

		if x < objX || x >= objX+img.Width() || y+len(buf) <= objY || y >= objY+img.Height() {
			continue
		}

		xOff := x - objX

		var idx, imgY int
		if y <= objY {
			idx = objY - y
		} else {
			imgY = y - objY
		}

		for ; idx < len(buf) && imgY < img.Height(); idx, imgY = idx+1, imgY+1 {
			if pixel := img.Pix[imgY*img.Width()+xOff]; pixel != vga.Transparent {
				buf[idx] = pixel
			}
		}
	}
}

// Render draws the whole screen with its top left corner at map coordinate
// (x, y), one horizontal line at a time.
func (v *View) Render(x, y int, s *vga.Screen) {
	var line [vga.ScrollX]byte
	for i := 0; i < vga.ScrollY; i++ {
		v.FillHorizontal(x, y+i, line[:])
		s.SetRow(i, line[:])
	}
}

// RenderColumns draws the same picture as Render but one vertical line at a
// time, the way the display is filled when scrolling sideways.
func (v *View) RenderColumns(x, y int, s *vga.Screen) {
	var line [vga.ScrollY]byte
	for i := 0; i < vga.ScrollX; i++ {
		v.FillVertical(x+i, y, line[:])
		s.SetColumn(i, line[:])
	}
}
