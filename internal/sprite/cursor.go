package sprite

import "errors"

// ErrEmptyAnimation is returned for an animation without frames, both at load
// time and when a cursor is asked to step through zero frames.
var ErrEmptyAnimation = errors.New("animation has no frames")

// Cursor selects the active frame of one entity's animation.
// The zero value starts at frame 0. A Cursor must have a single owner; it is
// not safe for concurrent use.
type Cursor struct {
	index int
}

// Next returns the frame index to draw this tick and advances to
// (index+1) mod n, so the first call yields 0 and playback loops forever.
func (c *Cursor) Next(n int) (int, error) {
	current, err := c.Peek(n)
	if err != nil {
		return 0, err
	}
	c.index = (current + 1) % n
	return current, nil
}

// Peek returns the frame index Next would yield without moving the cursor.
func (c Cursor) Peek(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyAnimation
	}
	return c.index % n, nil
}

// Index returns the index the next call to Next will yield, before reduction
// by the frame count.
func (c Cursor) Index() int {
	return c.index
}

// Reset rewinds the cursor to frame 0.
func (c *Cursor) Reset() {
	c.index = 0
}
