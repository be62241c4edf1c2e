// Package tcellterm draws scenes straight onto a tcell screen. The terminal
// is owned for the duration of WithScreen and restored when it returns,
// including when the callback panics.
package tcellterm

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/engine"
	"github.com/vovakirdan/termsprite/internal/platform/keys"
)

// WithScreen initialises screen, runs fn and finalises the screen on the
// way out.
func WithScreen(screen tcell.Screen, fn func(tcell.Screen) error) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tcellterm: init screen: %w", err)
	}
	defer screen.Fini()

	return fn(screen)
}

// WithDisplay runs fn on the real terminal.
func WithDisplay(fn func(tcell.Screen) error) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcellterm: new screen: %w", err)
	}
	return WithScreen(screen, fn)
}

// Sink flushes a buffer onto a tcell screen: every cell is set, the cursor
// is shown on the buffer's cursor cell and Show pushes it to the terminal.
type Sink struct {
	Screen tcell.Screen

	styles map[core.Color]tcell.Style
}

// NewSink creates a sink drawing onto screen.
func NewSink(screen tcell.Screen) *Sink {
	return &Sink{Screen: screen, styles: make(map[core.Color]tcell.Style)}
}

func (s *Sink) style(c core.Color) tcell.Style {
	if st, ok := s.styles[c]; ok {
		return st
	}
	st := tcell.StyleDefault
	if idx, ok := c.Index(); ok {
		st = st.Foreground(tcell.PaletteColor(int(idx)))
	}
	s.styles[c] = st
	return st
}

// Flush implements render.Sink.
func (s *Sink) Flush(buf *core.Screen) error {
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			cell := buf.GetCell(x, y)
			s.Screen.SetContent(x, y, cell.Rune, nil, s.style(cell.Color))
		}
	}
	s.Screen.ShowCursor(buf.Cursor())
	s.Screen.Show()
	return nil
}

// Options configures Run.
type Options struct {
	TickRate      int
	Keys          keys.KeyMap
	ScreenshotDir string
	Logger        *log.Logger
}

// Run plays scene on screen until a quit key, ctx ending or a tick error.
// The scene must render into a Sink on the same screen.
func Run(ctx context.Context, screen tcell.Screen, scene *engine.Scene, opts Options) (engine.Stats, error) {
	if opts.TickRate <= 0 {
		opts.TickRate = 16
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	w, h := screen.Size()
	scene.Resize(w, h)

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(opts.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return scene.Stats(), nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quit := handleKey(scene, opts, keyName(ev)); quit {
					return scene.Stats(), nil
				}
			case *tcell.EventResize:
				w, h := ev.Size()
				scene.Resize(w, h)
				screen.Sync()
			}

		case <-ticker.C:
			if _, err := scene.Tick(ctx); err != nil {
				return scene.Stats(), err
			}
		}
	}
}

func handleKey(scene *engine.Scene, opts Options, name string) (quit bool) {
	action := opts.Keys.Resolve(name)
	switch action {
	case keys.ActionQuit:
		return true
	case keys.ActionScreenshot:
		if opts.ScreenshotDir == "" {
			return false
		}
		path, err := scene.Screenshot(opts.ScreenshotDir)
		if err != nil {
			opts.Logger.Warn("screenshot failed", "error", err)
		} else {
			opts.Logger.Info("screenshot saved", "path", path)
		}
		return false
	}

	if dir, ok := keys.Steer(action); ok {
		scene.Steer(dir)
	}
	return false
}

var specialNames = map[tcell.Key]string{
	tcell.KeyUp:        "up",
	tcell.KeyDown:      "down",
	tcell.KeyLeft:      "left",
	tcell.KeyRight:     "right",
	tcell.KeyEsc:       "esc",
	tcell.KeyEnter:     "enter",
	tcell.KeyTab:       "tab",
	tcell.KeyBacktab:   "shift+tab",
	tcell.KeyBackspace: "backspace",
	tcell.KeyDelete:    "delete",
	tcell.KeyHome:      "home",
	tcell.KeyEnd:       "end",
	tcell.KeyPgUp:      "pgup",
	tcell.KeyPgDn:      "pgdown",
}

// keyName renders a tcell key event the way Bubble Tea names keys, so one
// KeyMap serves both backends.
func keyName(ev *tcell.EventKey) string {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case ev.Modifiers()&tcell.ModCtrl != 0:
			return "ctrl+" + string(unicode.ToLower(r))
		case ev.Modifiers()&tcell.ModAlt != 0:
			return "alt+" + string(r)
		}
		return string(r)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return "ctrl+" + string(rune('a'+k-tcell.KeyCtrlA))
	}

	if name, ok := specialNames[k]; ok {
		return name
	}
	// Raw control codes, e.g. 0x13 for ctrl+s.
	if k > tcell.KeyNUL && k < tcell.KeyESC {
		return "ctrl+" + string(rune('a'+k-tcell.KeySOH))
	}
	return ""
}
