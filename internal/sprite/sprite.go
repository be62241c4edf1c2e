// Package sprite holds the immutable sprite asset model, its JSON loader and
// the per-instance animation cursor.
//
// A *Sprite is safe to share between any number of entities once loaded: the
// only mutable playback state is the Cursor, which every entity owns itself.
package sprite

// Frame is one pixel grid with an optional parallel grid of 256-color indices.
// When Colors is non-nil it has exactly the shape of Pixels.
type Frame struct {
	Pixels [][]rune
	Colors [][]uint8
}

// Width returns the length of the longest row.
func (f Frame) Width() int {
	w := 0
	for _, row := range f.Pixels {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Height returns the number of rows.
func (f Frame) Height() int {
	return len(f.Pixels)
}

// Colored reports whether the frame carries a color grid.
func (f Frame) Colored() bool {
	return f.Colors != nil
}

// Animation is a named, ordered, non-empty sequence of frames played in a loop.
type Animation struct {
	Name   string
	Frames []Frame
}

// Len returns the number of frames.
func (a Animation) Len() int {
	return len(a.Frames)
}

// Sprite is a named visual: a static frame plus optional named animations.
type Sprite struct {
	Name   string
	Static Frame

	animations []Animation
	byName     map[string]int
}

// New assembles a sprite from already validated parts.
// Animation names must be unique; Parse is the checked entry point.
func New(name string, static Frame, animations ...Animation) *Sprite {
	s := &Sprite{
		Name:       name,
		Static:     static,
		animations: animations,
		byName:     make(map[string]int, len(animations)),
	}
	for i, a := range animations {
		s.byName[a.Name] = i
	}
	return s
}

// Animation returns the animation with the given name.
func (s *Sprite) Animation(name string) (Animation, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Animation{}, false
	}
	return s.animations[i], true
}

// HasAnimation reports whether the sprite declares the named animation.
func (s *Sprite) HasAnimation(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Animations returns the animations in declaration order.
func (s *Sprite) Animations() []Animation {
	out := make([]Animation, len(s.animations))
	copy(out, s.animations)
	return out
}

// AnimationNames returns the animation names in declaration order.
func (s *Sprite) AnimationNames() []string {
	names := make([]string, 0, len(s.animations))
	for _, a := range s.animations {
		names = append(names, a.Name)
	}
	return names
}
