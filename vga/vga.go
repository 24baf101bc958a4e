/*
Package vga models the 256-color display used to show room photos.

The display has a 256 entry palette of 6-bit RGB colors. The first 64
entries are fixed and hold every 2:2:2 RGB combination; object images are
drawn using only these. The remaining 192 entries are reloaded each time a
new room is shown and hold the colors chosen for that room's photo.
*/
package vga

const (
	// LowColors is the number of fixed palette entries used by objects
	LowColors = 64
	// PhotoColors is the number of palette entries available to a photo
	PhotoColors = 192
	// PhotoBase is the first palette entry used by a photo
	PhotoBase = LowColors
	// NumColors is the total size of the display palette
	NumColors = LowColors + PhotoColors

	// Transparent marks an object pixel that should not be drawn
	Transparent = 0x40

	// ScrollX is the width in pixels of the scrolling viewport
	ScrollX = 320
	// ScrollY is the height in pixels of the scrolling viewport
	ScrollY = 182
)
