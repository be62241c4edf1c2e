package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/termsprite/internal/engine"
	"github.com/vovakirdan/termsprite/internal/platform/keys"
)

// Options configures a play Model.
type Options struct {
	TickRate      int // ticks per second
	Keys          keys.KeyMap
	ScreenshotDir string // empty disables screenshots
	Logger        *log.Logger
}

// Model is the Bubble Tea model for playing a scene. The scene renders into
// sink; View shows the last flushed frame plus a help line.
type Model struct {
	ctx      context.Context
	scene    *engine.Scene
	sink     *FrameSink
	opts     Options
	help     help.Model
	quitting bool
	err      error
}

// NewModel creates a model for scene, which must render into sink.
func NewModel(ctx context.Context, scene *engine.Scene, sink *FrameSink, opts Options) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = 16
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	return Model{
		ctx:   ctx,
		scene: scene,
		sink:  sink,
		opts:  opts,
		help:  h,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey resolves the key and steers the focal entity.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.opts.Keys.Resolve(msg.String())

	switch action {
	case keys.ActionQuit:
		return m.quit(nil)
	case keys.ActionScreenshot:
		if path, err := m.saveScreenshot(); err != nil {
			m.opts.Logger.Warn("screenshot failed", "error", err)
		} else if path != "" {
			m.opts.Logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if dir, ok := keys.Steer(action); ok {
		m.scene.Steer(dir)
	}
	return m, nil
}

// handleResize keeps one row for the help line.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.scene.Resize(msg.Width, max(msg.Height-1, 0))
	m.help.Width = msg.Width
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if _, err := m.scene.Tick(m.ctx); err != nil {
		return m.quit(err)
	}
	return m, tickCmd(m.opts.TickRate)
}

func (m Model) quit(err error) (tea.Model, tea.Cmd) {
	m.quitting = true
	m.err = err
	if err != nil {
		m.opts.Logger.Error("scene stopped", "scene", m.scene.Name(), "error", err)
	}
	return m, tea.Quit
}

// saveScreenshot returns the path written, or empty when screenshots are
// disabled.
func (m Model) saveScreenshot() (string, error) {
	if m.opts.ScreenshotDir == "" {
		return "", nil
	}
	return m.scene.Screenshot(m.opts.ScreenshotDir)
}

// View renders the last frame with the help line below it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	helpStyle := lipgloss.NewStyle().Faint(true)
	return m.sink.Frame() + "\n" + helpStyle.Render(m.help.View(m.opts.Keys))
}

// Err returns the error that stopped the scene, if any.
func (m Model) Err() error {
	return m.err
}

// Run plays scene in the current terminal until the quit key or ctx ends.
func Run(ctx context.Context, scene *engine.Scene, sink *FrameSink, opts Options) (engine.Stats, error) {
	model := NewModel(ctx, scene, sink, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return scene.Stats(), nil
	}
	if err != nil {
		return scene.Stats(), fmt.Errorf("tui: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return scene.Stats(), fm.err
	}
	return scene.Stats(), nil
}
