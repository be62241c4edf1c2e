package render

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/termsprite/internal/camera"
	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/entity"
)

// ErrDuplicateEntity is returned when one entity is passed twice to a pass;
// its cursor would otherwise advance twice in one tick.
var ErrDuplicateEntity = errors.New("render: entity appears twice in one pass")

// Sink receives a finished buffer. Flush is called exactly once per pass.
type Sink interface {
	Flush(buf *core.Screen) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(buf *core.Screen) error

// Flush calls f(buf).
func (f SinkFunc) Flush(buf *core.Screen) error {
	return f(buf)
}

// Result describes what a pass drew.
type Result struct {
	Drawn  []string // in composition order; Pass puts the focal first
	Culled []string

	// CulledIndex holds the culled entities' positions in the slice given
	// to the pass, in the same order as Culled.
	CulledIndex []int
}

// job places one entity's frame on the screen.
type job struct {
	e    *entity.Entity
	x, y int
}

// Pass renders one tick: it clears buf, projects every entity around focal,
// composes the focal first and then each visible entity, parks the cursor on
// the bottom-right cell and flushes buf to sink once.
//
// Frames are resolved concurrently and applied to buf in pass order. Cursors
// step only once every frame has resolved, so if any entity fails the pass
// leaves every cursor untouched and nothing is flushed.
func Pass(buf *core.Screen, sink Sink, focal *entity.Entity, others []*entity.Entity) (Result, error) {
	if err := checkUnique(append([]*entity.Entity{focal}, others...)); err != nil {
		return Result{}, err
	}

	width := uint16(core.Clamp(buf.Width(), 0, math.MaxUint16))
	height := uint16(core.Clamp(buf.Height(), 0, math.MaxUint16))

	positions := make([]entity.Position, len(others))
	for i, e := range others {
		positions[i] = e.Position
	}
	proj := camera.Project(focal.Position, positions, width, height)

	jobs := make([]job, 0, len(proj.Visible)+1)
	jobs = append(jobs, job{e: focal, x: proj.Focal.X, y: proj.Focal.Y})
	for _, pl := range proj.Visible {
		jobs = append(jobs, job{e: others[pl.Index], x: pl.X, y: pl.Y})
	}
	return compose(buf, sink, jobs, others, proj.Culled)
}

// PassFixed renders one tick with a fixed camera: each entity is drawn with
// its top-left cell at its world position, in input order, and clipped to
// buf. Entities whose position lies outside buf are culled. Like Pass it
// clears once, parks the cursor and flushes once.
func PassFixed(buf *core.Screen, sink Sink, entities []*entity.Entity) (Result, error) {
	if err := checkUnique(entities); err != nil {
		return Result{}, err
	}

	screen := buf.Bounds()
	jobs := make([]job, 0, len(entities))
	var culled []int
	for i, e := range entities {
		x, y := int(e.Position.X), int(e.Position.Y)
		if !screen.Contains(x, y) {
			culled = append(culled, i)
			continue
		}
		jobs = append(jobs, job{e: e, x: x, y: y})
	}
	return compose(buf, sink, jobs, entities, culled)
}

// compose resolves every job's frame, stamps them onto a cleared buf in job
// order and flushes. culled indexes into entities.
func compose(buf *core.Screen, sink Sink, jobs []job, entities []*entity.Entity, culled []int) (Result, error) {
	stamps := make([]stamp, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			f, err := j.e.CurrentFrame()
			if err != nil {
				return err
			}
			stamps[i] = stamp{x: j.x, y: j.y, frame: f}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}
	for _, j := range jobs {
		j.e.Step()
	}

	buf.Clear()
	res := Result{Drawn: make([]string, 0, len(jobs))}
	for i, s := range stamps {
		s.apply(buf)
		res.Drawn = append(res.Drawn, jobs[i].e.Name)
	}
	for _, i := range culled {
		res.Culled = append(res.Culled, entities[i].Name)
		res.CulledIndex = append(res.CulledIndex, i)
	}

	park(buf)

	if err := sink.Flush(buf); err != nil {
		return res, fmt.Errorf("render: flush: %w", err)
	}
	return res, nil
}

// park blanks the bottom-right cell and rests the cursor there, out of the
// way of the scene.
func park(buf *core.Screen) {
	w, h := buf.Width(), buf.Height()
	if w == 0 || h == 0 {
		return
	}
	buf.Set(w-1, h-1, ' ')
	buf.SetCursor(w-1, h-1)
}

func checkUnique(entities []*entity.Entity) error {
	seen := make(map[*entity.Entity]bool, len(entities))
	for _, e := range entities {
		if seen[e] {
			return fmt.Errorf("%w: %s", ErrDuplicateEntity, e.Name)
		}
		seen[e] = true
	}
	return nil
}
