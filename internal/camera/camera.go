// Package camera projects world positions onto the terminal, keeping a focal
// entity at the screen center and culling whatever lands off-screen.
package camera

import "github.com/vovakirdan/termsprite/internal/entity"

// Placement is a screen origin for one projected entity.
// Index is the entity's position in the input slice, or -1 for the focal.
type Placement struct {
	Index int
	X, Y  int
}

// Projection is the draw set of one pass.
type Projection struct {
	Focal   Placement
	Visible []Placement // in input order
	Culled  []int       // input indices of off-screen entities
}

// Center returns the screen cell the focal entity is drawn at.
func Center(width, height uint16) (int, int) {
	return int(width / 2), int(height / 2)
}

// Relative returns the screen origin of pos seen from focal and whether it
// lies inside [0,width) x [0,height). The offset is computed in int64 so a
// position far left or above the focal is a plain negative number.
func Relative(focal, pos entity.Position, width, height uint16) (x, y int, visible bool) {
	cx, cy := Center(width, height)
	sx := int64(cx) + int64(pos.X) - int64(focal.X)
	sy := int64(cy) + int64(pos.Y) - int64(focal.Y)

	if sx < 0 || sx >= int64(width) || sy < 0 || sy >= int64(height) {
		return 0, 0, false
	}
	return int(sx), int(sy), true
}

// Project places the focal entity at the center and every other position
// relative to it. Each position is projected independently.
func Project(focal entity.Position, others []entity.Position, width, height uint16) Projection {
	cx, cy := Center(width, height)
	p := Projection{
		Focal:   Placement{Index: -1, X: cx, Y: cy},
		Visible: make([]Placement, 0, len(others)),
	}

	for i, pos := range others {
		x, y, ok := Relative(focal, pos, width, height)
		if !ok {
			p.Culled = append(p.Culled, i)
			continue
		}
		p.Visible = append(p.Visible, Placement{Index: i, X: x, Y: y})
	}
	return p
}
