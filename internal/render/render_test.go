package render

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/termsprite/internal/core"
	"github.com/vovakirdan/termsprite/internal/entity"
	"github.com/vovakirdan/termsprite/internal/sprite"
)

// recordingSink counts flushes and keeps a copy of the last buffer.
type recordingSink struct {
	flushes int
	last    string
	cursorX int
	cursorY int
}

func (r *recordingSink) Flush(buf *core.Screen) error {
	r.flushes++
	r.last = buf.String()
	r.cursorX, r.cursorY = buf.Cursor()
	return nil
}

func block(r rune, w, h int) sprite.Frame {
	f := sprite.Frame{Pixels: make([][]rune, h)}
	for y := range f.Pixels {
		f.Pixels[y] = make([]rune, w)
		for x := range f.Pixels[y] {
			f.Pixels[y][x] = r
		}
	}
	return f
}

func mustEntity(t *testing.T, name string, s *sprite.Sprite, x, y uint16, anim string) *entity.Entity {
	t.Helper()
	e, err := entity.New(name, s, entity.Position{X: x, Y: y}, 1, anim)
	if err != nil {
		t.Fatal(err)
	}
	return &e
}

func TestDrawFrameColors(t *testing.T) {
	buf := core.NewScreen(10, 5)
	f := sprite.Frame{
		Pixels: [][]rune{{'a', 'b'}, {'c', 'd'}},
		Colors: [][]uint8{{1, 2}, {3, 4}},
	}
	DrawFrame(buf, f, 3, 1)

	tests := []struct {
		x, y  int
		r     rune
		color core.Color
	}{
		{3, 1, 'a', core.ANSI(1)},
		{4, 1, 'b', core.ANSI(2)},
		{3, 2, 'c', core.ANSI(3)},
		{4, 2, 'd', core.ANSI(4)},
	}
	for _, tc := range tests {
		c := buf.GetCell(tc.x, tc.y)
		if c.Rune != tc.r || c.Color != tc.color {
			t.Errorf("cell (%d, %d) = %+v, expected %q color %v", tc.x, tc.y, c, tc.r, tc.color)
		}
	}
	// Neighbouring cells keep the default
	if buf.GetCell(5, 1).Color != core.ColorDefault {
		t.Error("cell right of the frame should keep the default color")
	}
}

func TestDrawFrameUncoloredUsesDefault(t *testing.T) {
	buf := core.NewScreen(4, 4)
	buf.SetCell(0, 0, core.Cell{Rune: 'x', Color: core.ANSI(9)})

	DrawFrame(buf, block('o', 1, 1), 0, 0)
	if c := buf.GetCell(0, 0); c.Rune != 'o' || c.Color != core.ColorDefault {
		t.Errorf("cell = %+v, expected 'o' with default color", c)
	}
}

func TestDrawFrameClipsAtEdges(t *testing.T) {
	buf := core.NewScreen(3, 3)
	DrawFrame(buf, block('#', 3, 3), 2, 2)

	if buf.Get(2, 2) != '#' {
		t.Error("visible corner of the frame should be drawn")
	}
	if buf.String() != "   \n   \n  #" {
		t.Errorf("String() = %q, expected only the corner drawn", buf.String())
	}
}

func TestDrawEntityAdvancesCursor(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "blink", Frames: []sprite.Frame{block('0', 1, 1), block('1', 1, 1)}})
	e := mustEntity(t, "w", s, 0, 0, "blink")
	buf := core.NewScreen(1, 1)

	for i, want := range "0101" {
		if err := DrawEntity(buf, e, 0, 0); err != nil {
			t.Fatal(err)
		}
		if buf.Get(0, 0) != want {
			t.Errorf("draw %d: got %q, expected %q", i, buf.Get(0, 0), want)
		}
	}
}

func TestPassEndToEnd(t *testing.T) {
	buf := core.NewScreen(80, 24)
	sink := &recordingSink{}

	focal := mustEntity(t, "hero", sprite.New("a", block('A', 3, 2)), 40, 12, "")
	b := mustEntity(t, "b", sprite.New("b", block('B', 1, 1)), 60, 12, "")
	far := mustEntity(t, "far", sprite.New("c", block('C', 1, 1)), 1000, 12, "")

	res, err := Pass(buf, sink, focal, []*entity.Entity{b, far})
	if err != nil {
		t.Fatalf("Pass failed: %v", err)
	}

	for y := 12; y <= 13; y++ {
		for x := 40; x <= 42; x++ {
			if buf.Get(x, y) != 'A' {
				t.Errorf("expected 'A' at (%d, %d), got %q", x, y, buf.Get(x, y))
			}
		}
	}
	if buf.Get(43, 12) != ' ' || buf.Get(40, 14) != ' ' {
		t.Error("A block should be exactly 3x2")
	}
	if buf.Get(60, 12) != 'B' {
		t.Errorf("expected 'B' at (60, 12), got %q", buf.Get(60, 12))
	}
	if bytes.ContainsRune([]byte(buf.String()), 'C') {
		t.Error("culled entity should not be drawn")
	}

	if len(res.Drawn) != 2 || res.Drawn[0] != "hero" || res.Drawn[1] != "b" {
		t.Errorf("Drawn = %v, expected [hero b]", res.Drawn)
	}
	if len(res.Culled) != 1 || res.Culled[0] != "far" {
		t.Errorf("Culled = %v, expected [far]", res.Culled)
	}
	if len(res.CulledIndex) != 1 || res.CulledIndex[0] != 1 {
		t.Errorf("CulledIndex = %v, expected [1]", res.CulledIndex)
	}

	if sink.flushes != 1 {
		t.Errorf("Flush called %d times, expected 1", sink.flushes)
	}
	if sink.cursorX != 79 || sink.cursorY != 23 {
		t.Errorf("cursor parked at (%d, %d), expected (79, 23)", sink.cursorX, sink.cursorY)
	}
}

func TestPassFocalComposedFirst(t *testing.T) {
	buf := core.NewScreen(10, 10)
	sink := &recordingSink{}

	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 5, 5, "")
	overlap := mustEntity(t, "ghost", sprite.New("g", block('G', 1, 1)), 5, 5, "")

	if _, err := Pass(buf, sink, focal, []*entity.Entity{overlap}); err != nil {
		t.Fatal(err)
	}
	// Later entities overwrite the focal where they overlap.
	if buf.Get(5, 5) != 'G' {
		t.Errorf("expected 'G' on top at (5, 5), got %q", buf.Get(5, 5))
	}
}

func TestPassClearsPreviousFrame(t *testing.T) {
	buf := core.NewScreen(10, 10)
	sink := &recordingSink{}
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 5, 5, "")
	other := mustEntity(t, "o", sprite.New("o", block('O', 1, 1)), 7, 5, "")

	if _, err := Pass(buf, sink, focal, []*entity.Entity{other}); err != nil {
		t.Fatal(err)
	}
	other.Position.X = 8
	if _, err := Pass(buf, sink, focal, []*entity.Entity{other}); err != nil {
		t.Fatal(err)
	}
	if buf.Get(7, 5) != ' ' || buf.Get(8, 5) != 'O' {
		t.Errorf("stale cell left behind: row 5 = %q", buf.Row(5))
	}
	if sink.flushes != 2 {
		t.Errorf("Flush called %d times, expected 2", sink.flushes)
	}
}

func TestPassParksOverSprite(t *testing.T) {
	buf := core.NewScreen(3, 3)
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 2, 2)), 0, 0, "")

	if _, err := Pass(buf, &recordingSink{}, focal, nil); err != nil {
		t.Fatal(err)
	}
	// The focal covers (1,1)-(2,2); the parked blank wins at (2,2).
	if buf.Get(2, 2) != ' ' || buf.Get(1, 1) != 'A' {
		t.Errorf("buffer = %q, expected bottom-right blanked", buf.String())
	}
}

func TestPassAnimatesOncePerTick(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "walk", Frames: []sprite.Frame{block('0', 1, 1), block('1', 1, 1), block('2', 1, 1)}})
	buf := core.NewScreen(20, 5)
	focal := mustEntity(t, "hero", s, 10, 2, "walk")
	twin := mustEntity(t, "twin", s, 12, 2, "walk")

	// twin shares the sprite; advance it once before the passes so the
	// cursors differ.
	twin.NextFrame()

	for k := 0; k < 5; k++ {
		if _, err := Pass(buf, &recordingSink{}, focal, []*entity.Entity{twin}); err != nil {
			t.Fatal(err)
		}
		if got, want := buf.Get(10, 2), rune('0'+k%3); got != want {
			t.Errorf("tick %d: focal frame %q, expected %q", k, got, want)
		}
		if got, want := buf.Get(12, 2), rune('0'+(k+1)%3); got != want {
			t.Errorf("tick %d: twin frame %q, expected %q", k, got, want)
		}
	}
}

func TestPassCulledEntityKeepsCursor(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "walk", Frames: []sprite.Frame{block('0', 1, 1), block('1', 1, 1)}})
	buf := core.NewScreen(10, 10)
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 5, 5, "")
	away := mustEntity(t, "away", s, 500, 5, "walk")

	for i := 0; i < 3; i++ {
		if _, err := Pass(buf, &recordingSink{}, focal, []*entity.Entity{away}); err != nil {
			t.Fatal(err)
		}
	}
	f, _ := away.NextFrame()
	if f.Pixels[0][0] != '0' {
		t.Errorf("culled entity's cursor moved: frame %q, expected '0'", f.Pixels[0][0])
	}
}

func TestPassUnknownAnimationDoesNotFlush(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "walk", Frames: []sprite.Frame{block('0', 1, 1)}})
	buf := core.NewScreen(10, 10)
	sink := &recordingSink{}
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 5, 5, "")
	bad := mustEntity(t, "bad", s, 6, 5, "walk")
	bad.Sprite = sprite.New("other", block('x', 1, 1))

	_, err := Pass(buf, sink, focal, []*entity.Entity{bad})
	if !errors.Is(err, entity.ErrUnknownAnimation) {
		t.Errorf("Pass() error = %v, expected ErrUnknownAnimation", err)
	}
	if sink.flushes != 0 {
		t.Errorf("Flush called %d times after a failed pass, expected 0", sink.flushes)
	}
}

func TestPassFailureLeavesCursors(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "walk", Frames: []sprite.Frame{block('0', 1, 1), block('1', 1, 1)}})
	buf := core.NewScreen(10, 10)
	focal := mustEntity(t, "hero", s, 5, 5, "walk")
	good := mustEntity(t, "good", s, 6, 5, "walk")
	bad := mustEntity(t, "bad", s, 7, 5, "walk")
	bad.Sprite = sprite.New("other", block('x', 1, 1))

	for i := 0; i < 3; i++ {
		if _, err := Pass(buf, &recordingSink{}, focal, []*entity.Entity{good, bad}); err == nil {
			t.Fatal("expected Pass to fail")
		}
	}
	for _, e := range []*entity.Entity{focal, good} {
		f, err := e.CurrentFrame()
		if err != nil || f.Pixels[0][0] != '0' {
			t.Errorf("%s frame after failed passes = %q, %v, expected '0'", e.Name, f.Pixels[0][0], err)
		}
	}
}

func TestPassFixed(t *testing.T) {
	buf := core.NewScreen(10, 5)
	sink := &recordingSink{}

	a := mustEntity(t, "a", sprite.New("a", block('A', 2, 1)), 2, 1, "")
	far := mustEntity(t, "far", sprite.New("f", block('F', 1, 1)), 100, 3, "")
	edge := mustEntity(t, "edge", sprite.New("e", block('E', 3, 3)), 8, 3, "")

	res, err := PassFixed(buf, sink, []*entity.Entity{a, far, edge})
	if err != nil {
		t.Fatalf("PassFixed failed: %v", err)
	}

	if buf.Get(2, 1) != 'A' || buf.Get(3, 1) != 'A' || buf.Get(4, 1) != ' ' {
		t.Errorf("row 1 = %q, expected AA at world position (2, 1)", buf.Row(1))
	}
	// Clipped at the right and bottom edges; the parked cell wins at (9, 4).
	if buf.Get(8, 3) != 'E' || buf.Get(9, 4) != ' ' || buf.Get(8, 4) != 'E' {
		t.Errorf("edge sprite not clipped as expected:\n%s", buf.String())
	}
	if bytes.ContainsRune([]byte(buf.String()), 'F') {
		t.Error("entity outside the screen should not be drawn")
	}

	if len(res.Drawn) != 2 || res.Drawn[0] != "a" || res.Drawn[1] != "edge" {
		t.Errorf("Drawn = %v, expected [a edge]", res.Drawn)
	}
	if len(res.CulledIndex) != 1 || res.CulledIndex[0] != 1 || res.Culled[0] != "far" {
		t.Errorf("Culled = %v %v, expected far at index 1", res.Culled, res.CulledIndex)
	}
	if sink.flushes != 1 {
		t.Errorf("Flush called %d times, expected 1", sink.flushes)
	}
	if sink.cursorX != 9 || sink.cursorY != 4 {
		t.Errorf("cursor parked at (%d, %d), expected (9, 4)", sink.cursorX, sink.cursorY)
	}

	// No centering: moving the first entity moves it on screen.
	a.Position = entity.Position{X: 0, Y: 0}
	if _, err := PassFixed(buf, sink, []*entity.Entity{a}); err != nil {
		t.Fatal(err)
	}
	if buf.Get(0, 0) != 'A' || buf.Get(2, 1) != ' ' {
		t.Errorf("buffer after move:\n%s", buf.String())
	}
}

func TestPassFixedRejectsDuplicates(t *testing.T) {
	buf := core.NewScreen(10, 10)
	e := mustEntity(t, "o", sprite.New("o", block('O', 1, 1)), 1, 1, "")

	if _, err := PassFixed(buf, &recordingSink{}, []*entity.Entity{e, e}); !errors.Is(err, ErrDuplicateEntity) {
		t.Errorf("PassFixed() error = %v, expected ErrDuplicateEntity", err)
	}
}

func TestPassRejectsDuplicates(t *testing.T) {
	buf := core.NewScreen(10, 10)
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 5, 5, "")
	other := mustEntity(t, "o", sprite.New("o", block('O', 1, 1)), 6, 5, "")

	cases := [][]*entity.Entity{
		{focal},
		{other, other},
	}
	for _, others := range cases {
		if _, err := Pass(buf, &recordingSink{}, focal, others); !errors.Is(err, ErrDuplicateEntity) {
			t.Errorf("Pass() error = %v, expected ErrDuplicateEntity", err)
		}
	}
}

func TestPassFlushError(t *testing.T) {
	buf := core.NewScreen(4, 4)
	focal := mustEntity(t, "hero", sprite.New("a", block('A', 1, 1)), 0, 0, "")
	boom := errors.New("boom")

	_, err := Pass(buf, SinkFunc(func(*core.Screen) error { return boom }), focal, nil)
	if !errors.Is(err, boom) {
		t.Errorf("Pass() error = %v, expected wrapped flush error", err)
	}
}

func TestPassManyEntitiesConcurrently(t *testing.T) {
	s := sprite.New("w", block('s', 1, 1),
		sprite.Animation{Name: "walk", Frames: []sprite.Frame{block('0', 1, 1), block('1', 1, 1)}})
	buf := core.NewScreen(80, 24)
	focal := mustEntity(t, "hero", s, 40, 12, "walk")

	var mu sync.Mutex
	flushes := 0
	sink := SinkFunc(func(*core.Screen) error {
		mu.Lock()
		flushes++
		mu.Unlock()
		return nil
	})

	others := make([]*entity.Entity, 0, 60)
	for i := 0; i < 60; i++ {
		others = append(others, mustEntity(t, "e", s, uint16(10+i), uint16(i%24), "walk"))
	}

	for k := 0; k < 4; k++ {
		if _, err := Pass(buf, sink, focal, others); err != nil {
			t.Fatal(err)
		}
	}
	if flushes != 4 {
		t.Errorf("flushes = %d, expected 4", flushes)
	}
	for i, e := range others {
		f, _ := e.NextFrame()
		if f.Pixels[0][0] != '0' {
			t.Errorf("entity %d stepped an unexpected number of times", i)
		}
	}
}

func TestTextSink(t *testing.T) {
	var out bytes.Buffer
	buf := core.NewScreen(3, 2)
	buf.DrawText(0, 0, "abc")

	if err := (TextSink{W: &out}).Flush(buf); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abc\n   \n" {
		t.Errorf("TextSink wrote %q", out.String())
	}
}
