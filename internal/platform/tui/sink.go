package tui

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/termsprite/internal/core"
)

// FrameSink keeps the last flushed buffer as a rendered string for a Bubble
// Tea View to return.
type FrameSink struct {
	painter *Painter
	plain   bool

	mu    sync.RWMutex
	frame string
}

// NewFrameSink creates a frame sink. With plain set colors are dropped.
func NewFrameSink(p *Painter, plain bool) *FrameSink {
	if p == nil {
		p = defaultPainter
	}
	return &FrameSink{painter: p, plain: plain}
}

// Flush implements render.Sink.
func (f *FrameSink) Flush(buf *core.Screen) error {
	var out string
	if f.plain {
		out = buf.String()
	} else {
		out = f.painter.Render(buf)
	}

	f.mu.Lock()
	f.frame = out
	f.mu.Unlock()
	return nil
}

// Frame returns the last flushed frame.
func (f *FrameSink) Frame() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frame
}

// WriterSink draws each flushed buffer onto a terminal stream: cursor home,
// the styled rows, then the cursor moved to the buffer's cursor cell. Each
// flush is a single Write.
type WriterSink struct {
	W       io.Writer
	Painter *Painter
	CRLF    bool // terminate rows with \r\n, for terminals in raw mode
}

// Flush implements render.Sink.
func (s WriterSink) Flush(buf *core.Screen) error {
	p := s.Painter
	if p == nil {
		p = defaultPainter
	}

	body := p.Render(buf)
	if s.CRLF {
		body = strings.ReplaceAll(body, "\n", "\r\n")
	}

	x, y := buf.Cursor()
	var sb strings.Builder
	sb.Grow(len(body) + 16)
	sb.WriteString(ansi.CursorHomePosition)
	sb.WriteString(body)
	sb.WriteString(ansi.CursorPosition(x+1, y+1))

	_, err := io.WriteString(s.W, sb.String())
	return err
}
