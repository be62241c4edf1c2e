package core

import "strconv"

// Color represents a foreground color for a screen cell.
// Non-negative values are ANSI 256-color palette indices; ColorDefault leaves
// the terminal's own foreground in place.
type Color int16

// ColorDefault is the terminal default foreground.
const ColorDefault Color = -1

// ANSI returns the palette color with the given 256-color index.
func ANSI(index uint8) Color {
	return Color(index)
}

// Index returns the palette index and false for ColorDefault.
func (c Color) Index() (uint8, bool) {
	if c < 0 || c > 255 {
		return 0, false
	}
	return uint8(c), true
}

// String returns the palette index as text, or "default".
func (c Color) String() string {
	if i, ok := c.Index(); ok {
		return strconv.Itoa(int(i))
	}
	return "default"
}
