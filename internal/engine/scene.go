// Package engine drives a scene: it owns the focal entity and the others,
// applies motion once per tick and runs a render pass into a sink.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/vovakirdan/termsprite/internal/config"
	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/entity"
	"github.com/vovakirdan/termsprite/internal/registry"
	"github.com/vovakirdan/termsprite/internal/render"
)

// Stats accumulates what a scene has done so far.
type Stats struct {
	Ticks  int64
	Drawn  int64 // entity draws, focal included
	Culled int64 // entity-ticks spent off screen
}

// Scene is one running world. It is not safe for concurrent use; the
// display loop that owns it calls Steer and Tick from one goroutine.
type Scene struct {
	name   string
	focal  *entity.Entity
	others []entity.Entity
	ptrs   []*entity.Entity
	all    []*entity.Entity // focal first, for the fixed camera
	bounds entity.Bounds
	fixed  bool

	buf    *core.Screen
	sink   render.Sink
	logger *log.Logger

	stats     Stats
	offscreen map[*entity.Entity]bool

	sceneAttr metric.MeasurementOption
	passes    metric.Int64Counter
	drawn     metric.Int64Counter
	culled    metric.Int64Counter
	duration  metric.Float64Histogram
}

// New creates a scene around focal. width and height size the render
// buffer; logger may be nil.
func New(name string, focal entity.Entity, others []entity.Entity, bounds entity.Bounds,
	width, height int, sink render.Sink, logger *log.Logger) (*Scene, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Scene{
		name:      name,
		focal:     &focal,
		others:    others,
		ptrs:      make([]*entity.Entity, len(others)),
		bounds:    bounds,
		buf:       core.NewScreen(width, height),
		sink:      sink,
		logger:    logger,
		offscreen: make(map[*entity.Entity]bool),
		sceneAttr: metric.WithAttributes(attribute.String("scene", name)),
	}
	for i := range s.others {
		s.ptrs[i] = &s.others[i]
	}
	s.all = append([]*entity.Entity{s.focal}, s.ptrs...)

	// Get meter from global OTel provider (returns no-op if not configured)
	m := meter()

	var err error

	s.passes, err = m.Int64Counter(
		"scene.passes",
		metric.WithDescription("Render passes flushed"),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: creating passes counter: %w", err)
	}

	s.drawn, err = m.Int64Counter(
		"scene.entities.drawn",
		metric.WithDescription("Entities composed into a pass, focal included"),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: creating drawn counter: %w", err)
	}

	s.culled, err = m.Int64Counter(
		"scene.entities.culled",
		metric.WithDescription("Entities skipped because their origin was off screen"),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: creating culled counter: %w", err)
	}

	s.duration, err = m.Float64Histogram(
		"scene.pass.duration",
		metric.WithDescription("Time spent in one tick, motion and pass"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: creating duration histogram: %w", err)
	}

	return s, nil
}

// Build resolves every sprite the scene config names through reg and
// creates the scene.
func Build(cfg config.Scene, reg *registry.Registry, width, height int, sink render.Sink, logger *log.Logger) (*Scene, error) {
	focal, err := buildEntity(cfg.Focal, reg)
	if err != nil {
		return nil, err
	}

	others := make([]entity.Entity, 0, len(cfg.Entities))
	for _, spec := range cfg.Entities {
		e, err := buildEntity(spec, reg)
		if err != nil {
			return nil, err
		}
		others = append(others, e)
	}

	bounds := entity.Bounds{
		MaxX: uint16(cfg.World.Width - 1),
		MaxY: uint16(cfg.World.Height - 1),
	}
	s, err := New(cfg.Name, focal, others, bounds, width, height, sink, logger)
	if err != nil {
		return nil, err
	}
	s.FixCamera(cfg.Camera == config.CameraFixed)
	s.logger.Debug("scene built", "scene", s.name, "camera", cfg.Camera, "sprites", reg.Loaded())
	return s, nil
}

func buildEntity(spec config.EntitySpec, reg *registry.Registry) (entity.Entity, error) {
	spr, err := reg.Get(spec.Sprite)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("engine: entity %s: %w", spec.Name, err)
	}

	e, err := entity.New(spec.Name, spr,
		entity.Position{X: uint16(spec.Position.X), Y: uint16(spec.Position.Y)},
		uint16(spec.Speed), spec.Animation)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("engine: %w", err)
	}

	for _, d := range spec.Direction {
		switch d {
		case "up":
			e.Direction.Up = true
		case "down":
			e.Direction.Down = true
		case "left":
			e.Direction.Left = true
		case "right":
			e.Direction.Right = true
		}
	}
	return e, nil
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// FixCamera switches between a camera that follows the focal entity and
// one that draws every entity at its world position.
func (s *Scene) FixCamera(fixed bool) {
	s.fixed = fixed
}

// Steer replaces the focal entity's direction.
func (s *Scene) Steer(d entity.Direction) {
	s.focal.Direction = d
}

// Focal returns a copy of the focal entity.
func (s *Scene) Focal() entity.Entity {
	return *s.focal
}

// Entity returns a copy of the named non-focal entity.
func (s *Scene) Entity(name string) (entity.Entity, bool) {
	for _, e := range s.others {
		if e.Name == name {
			return e, true
		}
	}
	return entity.Entity{}, false
}

// Tick moves every entity one step and renders a pass. Unless the camera is
// fixed it follows the focal entity's new position.
func (s *Scene) Tick(ctx context.Context) (render.Result, error) {
	start := time.Now()

	*s.focal = entity.Advance(*s.focal, s.bounds)
	entity.AdvanceAll(s.others, s.bounds)

	var (
		res    render.Result
		err    error
		passed []*entity.Entity
	)
	if s.fixed {
		passed = s.all
		res, err = render.PassFixed(s.buf, s.sink, passed)
	} else {
		passed = s.ptrs
		res, err = render.Pass(s.buf, s.sink, s.focal, passed)
	}
	if err != nil {
		return res, fmt.Errorf("engine: scene %s: %w", s.name, err)
	}

	s.stats.Ticks++
	s.stats.Drawn += int64(len(res.Drawn))
	s.stats.Culled += int64(len(res.Culled))
	s.trackCulling(res, passed)

	s.passes.Add(ctx, 1, s.sceneAttr)
	s.drawn.Add(ctx, int64(len(res.Drawn)), s.sceneAttr)
	s.culled.Add(ctx, int64(len(res.Culled)), s.sceneAttr)
	s.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, s.sceneAttr)

	return res, nil
}

// trackCulling logs entities crossing the screen edge. passed is the slice
// res.CulledIndex refers to.
func (s *Scene) trackCulling(res render.Result, passed []*entity.Entity) {
	now := make(map[*entity.Entity]bool, len(res.CulledIndex))
	for _, i := range res.CulledIndex {
		e := passed[i]
		now[e] = true
		if !s.offscreen[e] {
			s.logger.Debug("entity left screen", "scene", s.name, "entity", e.Name, "tick", s.stats.Ticks)
		}
	}
	for e := range s.offscreen {
		if !now[e] {
			s.logger.Debug("entity entered screen", "scene", s.name, "entity", e.Name, "tick", s.stats.Ticks)
		}
	}
	s.offscreen = now
}

// Resize changes the render buffer size; with a following camera the next
// pass recenters on the focal entity.
func (s *Scene) Resize(width, height int) {
	s.buf.Resize(width, height)
	s.logger.Debug("resized", "scene", s.name, "width", width, "height", height)
}

// Screen returns the render buffer holding the last pass.
func (s *Scene) Screen() *core.Screen {
	return s.buf
}

// Stats returns the counters accumulated so far.
func (s *Scene) Stats() Stats {
	return s.stats
}

// Screenshot writes the last pass as plain text into dir and returns the
// file path.
func (s *Scene) Screenshot(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("engine: create screenshot dir: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405.000")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", s.name, timestamp))
	if err := os.WriteFile(path, []byte(s.buf.String()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("engine: write screenshot: %w", err)
	}
	return path, nil
}
