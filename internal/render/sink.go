package render

import (
	"io"

	"github.com/vovakirdan/termsprite/internal/core"
)

// TextSink writes each flushed buffer as plain text, colors dropped, in a
// single Write followed by a newline.
type TextSink struct {
	W io.Writer
}

// Flush implements Sink.
func (s TextSink) Flush(buf *core.Screen) error {
	_, err := io.WriteString(s.W, buf.String()+"\n")
	return err
}
