package sprite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// Validation failures wrapped by LoadError.
var (
	ErrNoName             = errors.New("missing sprite name")
	ErrNoPixels           = errors.New("pixel grid is empty")
	ErrPixel              = errors.New("pixel must be exactly one character")
	ErrColorShape         = errors.New("color grid does not match pixel grid")
	ErrColorRange         = errors.New("color index out of range 0-255")
	ErrDuplicateAnimation = errors.New("duplicate animation name")
	ErrNoAnimationName    = errors.New("animation without a name")
	ErrTrailingData       = errors.New("unexpected data after the sprite object")
)

// LoadError reports a sprite source that could not be read or does not
// describe a valid sprite. It is not transient: callers should abort.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("sprite: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// jsonFrame mirrors one frame of the sprite file.
type jsonFrame struct {
	Pixels [][]string `json:"pixels"`
	Colors [][]int    `json:"colors"`
}

type jsonAnimation struct {
	Name   string      `json:"name"`
	Frames []jsonFrame `json:"frames"`
}

// jsonSprite mirrors the sprite file format.
type jsonSprite struct {
	Name       *string         `json:"name"`
	Pixels     [][]string      `json:"pixels"`
	Colors     [][]int         `json:"colors"`
	Animations []jsonAnimation `json:"animations"`
}

// Load reads and parses a sprite file from disk.
func Load(path string) (*Sprite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(path, data)
}

// LoadFS reads and parses a sprite file from fsys.
func LoadFS(fsys fs.FS, path string) (*Sprite, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes sprite JSON. source only labels errors.
func Parse(source string, data []byte) (*Sprite, error) {
	var js jsonSprite
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&js); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &LoadError{Source: source, Err: ErrTrailingData}
	}

	if js.Name == nil {
		return nil, &LoadError{Source: source, Err: ErrNoName}
	}

	static, err := buildFrame(jsonFrame{Pixels: js.Pixels, Colors: js.Colors})
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("static frame: %w", err)}
	}

	seen := make(map[string]bool, len(js.Animations))
	animations := make([]Animation, 0, len(js.Animations))
	for i, ja := range js.Animations {
		if ja.Name == "" {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("animation %d: %w", i, ErrNoAnimationName)}
		}
		if seen[ja.Name] {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: %q", ErrDuplicateAnimation, ja.Name)}
		}
		seen[ja.Name] = true

		if len(ja.Frames) == 0 {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("animation %q: %w", ja.Name, ErrEmptyAnimation)}
		}

		anim := Animation{Name: ja.Name, Frames: make([]Frame, 0, len(ja.Frames))}
		for i, jf := range ja.Frames {
			f, err := buildFrame(jf)
			if err != nil {
				return nil, &LoadError{Source: source, Err: fmt.Errorf("animation %q frame %d: %w", ja.Name, i, err)}
			}
			anim.Frames = append(anim.Frames, f)
		}
		animations = append(animations, anim)
	}

	return New(*js.Name, static, animations...), nil
}

// buildFrame converts a decoded frame and checks pixel and color shapes.
// Pixel rows may be ragged; a color grid must follow the same raggedness.
func buildFrame(jf jsonFrame) (Frame, error) {
	if len(jf.Pixels) == 0 {
		return Frame{}, ErrNoPixels
	}

	f := Frame{Pixels: make([][]rune, len(jf.Pixels))}
	for y, row := range jf.Pixels {
		runes := make([]rune, len(row))
		for x, px := range row {
			if utf8.RuneCountInString(px) != 1 {
				return Frame{}, fmt.Errorf("%w: row %d column %d is %q", ErrPixel, y, x, px)
			}
			r, _ := utf8.DecodeRuneInString(px)
			runes[x] = r
		}
		f.Pixels[y] = runes
	}

	if jf.Colors == nil {
		return f, nil
	}

	if len(jf.Colors) != len(jf.Pixels) {
		return Frame{}, fmt.Errorf("%w: %d color rows for %d pixel rows", ErrColorShape, len(jf.Colors), len(jf.Pixels))
	}
	f.Colors = make([][]uint8, len(jf.Colors))
	for y, row := range jf.Colors {
		if len(row) != len(jf.Pixels[y]) {
			return Frame{}, fmt.Errorf("%w: row %d has %d colors for %d pixels", ErrColorShape, y, len(row), len(jf.Pixels[y]))
		}
		colors := make([]uint8, len(row))
		for x, c := range row {
			if c < 0 || c > 255 {
				return Frame{}, fmt.Errorf("%w: row %d column %d is %d", ErrColorRange, y, x, c)
			}
			colors[x] = uint8(c)
		}
		f.Colors[y] = colors
	}
	return f, nil
}
