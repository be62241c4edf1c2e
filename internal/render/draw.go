// Package render composes sprite frames into a core.Screen and hands each
// finished pass to a Sink in a single flush.
package render

import (
	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/entity"
	"github.com/vovakirdan/termsprite/internal/sprite"
)

// DrawFrame writes frame f with its top-left cell at (x, y), row-major.
// Uncolored frames use the terminal default color; cells off the screen are
// clipped.
func DrawFrame(buf *core.Screen, f sprite.Frame, x, y int) {
	for row, pixels := range f.Pixels {
		for col, r := range pixels {
			buf.SetCell(x+col, y+row, core.Cell{Rune: r, Color: cellColor(f, row, col)})
		}
	}
}

// DrawEntity draws the entity's current frame at (x, y), stepping its
// animation cursor when an animation is active.
func DrawEntity(buf *core.Screen, e *entity.Entity, x, y int) error {
	f, err := e.NextFrame()
	if err != nil {
		return err
	}
	DrawFrame(buf, f, x, y)
	return nil
}

func cellColor(f sprite.Frame, row, col int) core.Color {
	if f.Colors == nil {
		return core.ColorDefault
	}
	return core.ANSI(f.Colors[row][col])
}

// stamp is an entity's frame composed off-buffer, ready to be applied.
type stamp struct {
	x, y  int
	frame sprite.Frame
}

func (s stamp) apply(buf *core.Screen) {
	DrawFrame(buf, s.frame, s.x, s.y)
}
