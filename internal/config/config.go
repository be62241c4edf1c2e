// Package config provides YAML-based scene configuration: the world extent,
// tick rate, the entities to place and the key bindings used to steer.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("config: invalid scene")

// Camera modes.
const (
	CameraFollow = "follow" // screen centered on the focal entity
	CameraFixed  = "fixed"  // world drawn at absolute positions from the origin
)

// Scene describes everything needed to set up a play session.
type Scene struct {
	Name     string       `yaml:"name"`
	World    World        `yaml:"world"`
	TickRate int          `yaml:"tick_rate"` // ticks per second
	Camera   string       `yaml:"camera"`
	Focal    EntitySpec   `yaml:"focal"`
	Entities []EntitySpec `yaml:"entities"`
	Keys     Keys         `yaml:"keys"`
}

// World is the extent of the world in cells. Positions range over
// [0, Width-1] x [0, Height-1].
type World struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point is a world coordinate as written in YAML.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// EntitySpec places one entity in the scene.
type EntitySpec struct {
	Name      string   `yaml:"name"`
	Sprite    string   `yaml:"sprite"` // library name, file path or embedded asset
	Position  Point    `yaml:"position"`
	Speed     int      `yaml:"speed"`
	Animation string   `yaml:"animation"` // empty for the static frame
	Direction []string `yaml:"direction"` // initial drift: up, down, left, right
}

// Keys lists the key names bound to each action. Empty lists fall back to
// the defaults.
type Keys struct {
	Up         []string `yaml:"up"`
	Down       []string `yaml:"down"`
	Left       []string `yaml:"left"`
	Right      []string `yaml:"right"`
	Quit       []string `yaml:"quit"`
	Screenshot []string `yaml:"screenshot"`
}

// Validate checks the scene for values the engine cannot represent.
func (s Scene) Validate() error {
	if s.World.Width < 1 || s.World.Width > math.MaxUint16+1 {
		return fmt.Errorf("%w: world width %d out of range [1, %d]", ErrInvalidScene, s.World.Width, math.MaxUint16+1)
	}
	if s.World.Height < 1 || s.World.Height > math.MaxUint16+1 {
		return fmt.Errorf("%w: world height %d out of range [1, %d]", ErrInvalidScene, s.World.Height, math.MaxUint16+1)
	}
	if s.TickRate < 1 || s.TickRate > 240 {
		return fmt.Errorf("%w: tick_rate %d out of range [1, 240]", ErrInvalidScene, s.TickRate)
	}
	if s.Camera != CameraFollow && s.Camera != CameraFixed {
		return fmt.Errorf("%w: unknown camera %q (use %s or %s)", ErrInvalidScene, s.Camera, CameraFollow, CameraFixed)
	}

	seen := make(map[string]bool, len(s.Entities)+1)
	for _, e := range append([]EntitySpec{s.Focal}, s.Entities...) {
		if err := s.validateEntity(e); err != nil {
			return err
		}
		if seen[e.Name] {
			return fmt.Errorf("%w: duplicate entity name %q", ErrInvalidScene, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

func (s Scene) validateEntity(e EntitySpec) error {
	if e.Name == "" {
		return fmt.Errorf("%w: entity without a name", ErrInvalidScene)
	}
	if e.Sprite == "" {
		return fmt.Errorf("%w: entity %q has no sprite", ErrInvalidScene, e.Name)
	}
	if e.Position.X < 0 || e.Position.X >= s.World.Width || e.Position.Y < 0 || e.Position.Y >= s.World.Height {
		return fmt.Errorf("%w: entity %q at (%d, %d) is outside the %dx%d world",
			ErrInvalidScene, e.Name, e.Position.X, e.Position.Y, s.World.Width, s.World.Height)
	}
	if e.Speed < 0 || e.Speed > math.MaxUint16 {
		return fmt.Errorf("%w: entity %q speed %d out of range", ErrInvalidScene, e.Name, e.Speed)
	}
	for _, d := range e.Direction {
		switch d {
		case "up", "down", "left", "right":
		default:
			return fmt.Errorf("%w: entity %q has unknown direction %q", ErrInvalidScene, e.Name, d)
		}
	}
	return nil
}
