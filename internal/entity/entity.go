// Package entity models the things a scene draws: a shared sprite, a world
// position, a direction and speed, and the entity's own animation cursor.
package entity

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/termsprite/internal/sprite"
)

// ErrUnknownAnimation is a contract violation: the entity's active animation
// is not declared by its sprite.
var ErrUnknownAnimation = errors.New("entity: animation not declared by sprite")

// Position is a world coordinate. Origin is top-left, y grows downward.
type Position struct {
	X, Y uint16
}

// Direction holds four independent movement flags; combining them moves
// diagonally, opposite flags cancel out.
type Direction struct {
	Up, Down, Left, Right bool
}

// Still reports whether no flag is set.
func (d Direction) Still() bool {
	return !d.Up && !d.Down && !d.Left && !d.Right
}

// Bounds is the largest reachable world coordinate on each axis (inclusive).
type Bounds struct {
	MaxX, MaxY uint16
}

// Entity is one drawable, movable instance of a sprite.
type Entity struct {
	Name      string
	Sprite    *sprite.Sprite
	Position  Position
	Direction Direction
	Speed     uint16

	animation string
	cursor    sprite.Cursor
}

// New creates an entity, checking that animation (when non-empty) is declared
// by the sprite.
func New(name string, s *sprite.Sprite, pos Position, speed uint16, animation string) (Entity, error) {
	if s == nil {
		return Entity{}, fmt.Errorf("entity: %s has no sprite", name)
	}
	e := Entity{
		Name:     name,
		Sprite:   s,
		Position: pos,
		Speed:    speed,
	}
	if err := e.SetAnimation(animation); err != nil {
		return Entity{}, err
	}
	return e, nil
}

// Animation returns the active animation name; empty means the static frame.
func (e *Entity) Animation() string {
	return e.animation
}

// SetAnimation switches the active animation and rewinds the cursor.
// An empty name selects the static frame.
func (e *Entity) SetAnimation(name string) error {
	if name != "" && !e.Sprite.HasAnimation(name) {
		return fmt.Errorf("%w: %s wants %q from sprite %q", ErrUnknownAnimation, e.Name, name, e.Sprite.Name)
	}
	if name != e.animation {
		e.cursor.Reset()
	}
	e.animation = name
	return nil
}

// NextFrame returns the frame to draw this tick. For an animated entity it
// steps the cursor, so it must be called at most once per render pass.
func (e *Entity) NextFrame() (sprite.Frame, error) {
	f, err := e.CurrentFrame()
	if err != nil {
		return sprite.Frame{}, err
	}
	e.Step()
	return f, nil
}

// CurrentFrame returns the frame NextFrame would return, leaving the cursor
// where it is.
func (e *Entity) CurrentFrame() (sprite.Frame, error) {
	if e.animation == "" {
		return e.Sprite.Static, nil
	}
	anim, err := e.active()
	if err != nil {
		return sprite.Frame{}, err
	}
	i, err := e.cursor.Peek(anim.Len())
	if err != nil {
		return sprite.Frame{}, fmt.Errorf("entity: %s animation %q: %w", e.Name, e.animation, err)
	}
	return anim.Frames[i], nil
}

// Step moves the animation cursor to the next frame. It is a no-op for the
// static frame or an animation that cannot be drawn.
func (e *Entity) Step() {
	if e.animation == "" {
		return
	}
	anim, err := e.active()
	if err != nil || anim.Len() == 0 {
		return
	}
	_, _ = e.cursor.Next(anim.Len())
}

func (e *Entity) active() (sprite.Animation, error) {
	anim, ok := e.Sprite.Animation(e.animation)
	if !ok {
		return sprite.Animation{}, fmt.Errorf("%w: %s wants %q from sprite %q", ErrUnknownAnimation, e.Name, e.animation, e.Sprite.Name)
	}
	return anim, nil
}
