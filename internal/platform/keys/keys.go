// Package keys maps key names to steering actions. Key names follow the
// Bubble Tea convention ("z", "up", "esc", "ctrl+c"), so every display
// backend resolves input the same way.
package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/termsprite/internal/config"
	"github.com/vovakirdan/termsprite/internal/entity"
)

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // move the focal entity up
	ActionDown              // move down
	ActionLeft              // move left
	ActionRight             // move right
	ActionQuit              // end the session
	ActionScreenshot        // save the current buffer
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionQuit:
		return "Quit"
	case ActionScreenshot:
		return "Screenshot"
	default:
		return "Unknown"
	}
}

// Name is a key name usable with key.Matches.
type Name string

func (n Name) String() string { return string(n) }

// KeyMap holds the bindings for play. It implements help.KeyMap.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Down, k.Right, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Screenshot, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return FromConfig(config.DefaultKeys())
}

// FromConfig builds a KeyMap from scene key bindings.
func FromConfig(c config.Keys) KeyMap {
	return KeyMap{
		Up:         binding(c.Up, "up"),
		Down:       binding(c.Down, "down"),
		Left:       binding(c.Left, "left"),
		Right:      binding(c.Right, "right"),
		Quit:       binding(c.Quit, "quit"),
		Screenshot: binding(c.Screenshot, "screenshot"),
	}
}

func binding(names []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(strings.Join(names, "/"), desc),
	)
}

// Resolve returns the action bound to a key name, or ActionNone.
func (k KeyMap) Resolve(name string) Action {
	n := Name(name)
	switch {
	case key.Matches(n, k.Quit):
		return ActionQuit
	case key.Matches(n, k.Screenshot):
		return ActionScreenshot
	case key.Matches(n, k.Up):
		return ActionUp
	case key.Matches(n, k.Down):
		return ActionDown
	case key.Matches(n, k.Left):
		return ActionLeft
	case key.Matches(n, k.Right):
		return ActionRight
	}
	return ActionNone
}

// Steer converts an action into the focal entity's next direction. Every
// key press replaces the whole direction: a movement key selects exactly one
// flag and any unbound key stops. Quit and Screenshot do not steer and
// report false.
func Steer(a Action) (entity.Direction, bool) {
	switch a {
	case ActionUp:
		return entity.Direction{Up: true}, true
	case ActionDown:
		return entity.Direction{Down: true}, true
	case ActionLeft:
		return entity.Direction{Left: true}, true
	case ActionRight:
		return entity.Direction{Right: true}, true
	case ActionQuit, ActionScreenshot:
		return entity.Direction{}, false
	}
	return entity.Direction{}, true
}
