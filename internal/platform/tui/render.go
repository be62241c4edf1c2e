package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/termsprite/internal/core"
)

// Painter converts a Screen buffer to a styled string. Styles for the 256
// palette entries are built on first use and cached.
type Painter struct {
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	styles map[core.Color]lipgloss.Style
}

// NewPainter creates a painter for r. A nil renderer uses lipgloss's default,
// which detects the color profile of stdout.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{
		renderer: r,
		styles:   make(map[core.Color]lipgloss.Style),
	}
}

var defaultPainter = NewPainter(nil)

// RenderScreen renders s with the default painter.
func RenderScreen(s *core.Screen) string {
	return defaultPainter.Render(s)
}

func (p *Painter) style(c core.Color) lipgloss.Style {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.styles[c]; ok {
		return st
	}
	st := p.renderer.NewStyle()
	if idx, ok := c.Index(); ok {
		st = st.Foreground(lipgloss.Color(strconv.Itoa(int(idx))))
	}
	p.styles[c] = st
	return st
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (p *Painter) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if startColor == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}
