/*
Package roomview is a library for drawing room photos and the objects placed
in them onto a scrolling 256-color display.

The display itself and the rooms are owned by the caller. A View records
which room is being shown and produces the horizontal and vertical lines of
pixels the scrolling code asks for.
*/
package roomview

import (
	"errors"
	"log"

	"github.com/bodgit/roomview/photo"
	"github.com/bodgit/roomview/sprite"
	"github.com/bodgit/roomview/vga"
)

var errNoPhoto = errors.New("roomview: room has no photo")

// Object is something placed in a room and drawn over its photo.
type Object interface {
	Image() *sprite.Image
	// Position returns the map coordinates of the top left of the image
	Position() (x, y int)
}

// Room is a photo plus the objects currently placed in it. Objects are
// drawn in the order returned, later objects over earlier ones.
type Room interface {
	Photo() *photo.Photo
	Objects() []Object
}

// Display accepts the palette chosen for a photo.
type Display interface {
	SetPalette(p *vga.Palette) error
}

// View draws the current room. SelectRoom must not be called while another
// goroutine is drawing; drawing from several goroutines at once is fine.
type View struct {
	display Display
	logger  *log.Logger
	room    Room
}

// New returns a View that loads photo palettes into display.
func New(display Display, logger *log.Logger) *View {
	return &View{
		display: display,
		logger:  logger,
	}
}

// SelectRoom loads the palette for the photo of r and makes it the room
// that is drawn. On error the previous room remains selected.
func (v *View) SelectRoom(r Room) error {
	p := r.Photo()
	if p == nil {
		return errNoPhoto
	}

	if err := v.display.SetPalette(&p.Palette); err != nil {
		return err
	}
	v.room = r

	v.logger.Printf("Selected room with %dx%d photo and %d objects\n", p.Width(), p.Height(), len(r.Objects()))

	return nil
}

// Room returns the currently selected room, or nil.
func (v *View) Room() Room {
	return v.room
}
