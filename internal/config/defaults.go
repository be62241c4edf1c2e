package config

import (
	_ "embed"
)

//go:embed defaults/scene.yaml
var defaultSceneYAML []byte

// DefaultScene returns the built-in desert scene: a walking camel at the
// center of a 20000x20000 world and one enemy close by.
func DefaultScene() Scene {
	return Scene{
		Name: "desert",
		World: World{
			Width:  20000,
			Height: 20000,
		},
		TickRate: 16,
		Camera:   CameraFollow,
		Focal: EntitySpec{
			Name:      "camel",
			Sprite:    "camel",
			Position:  Point{X: 10000, Y: 10000},
			Speed:     2,
			Animation: "walking",
		},
		Entities: []EntitySpec{
			{
				Name:     "enemy",
				Sprite:   "enemy",
				Position: Point{X: 10020, Y: 10020},
				Speed:    1,
			},
		},
		Keys: DefaultKeys(),
	}
}

// DefaultKeys returns the default bindings: ZQSD, WASD and the arrows.
func DefaultKeys() Keys {
	return Keys{
		Up:         []string{"z", "w", "up"},
		Down:       []string{"s", "down"},
		Left:       []string{"q", "a", "left"},
		Right:      []string{"d", "right"},
		Quit:       []string{"esc", "ctrl+c"},
		Screenshot: []string{"ctrl+s"},
	}
}

// withDefaults fills zero values left out of a YAML file.
func (s Scene) withDefaults() Scene {
	def := DefaultScene()
	if s.Name == "" {
		s.Name = "scene"
	}
	if s.World.Width == 0 {
		s.World.Width = def.World.Width
	}
	if s.World.Height == 0 {
		s.World.Height = def.World.Height
	}
	if s.TickRate == 0 {
		s.TickRate = def.TickRate
	}
	if s.Camera == "" {
		s.Camera = def.Camera
	}
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = append([]string(nil), src...)
		}
	}
	fill(&s.Keys.Up, def.Keys.Up)
	fill(&s.Keys.Down, def.Keys.Down)
	fill(&s.Keys.Left, def.Keys.Left)
	fill(&s.Keys.Right, def.Keys.Right)
	fill(&s.Keys.Quit, def.Keys.Quit)
	fill(&s.Keys.Screenshot, def.Keys.Screenshot)
	return s
}
