// Package registry resolves sprite references used by scenes and caches the
// loaded sprites, so that every entity naming the same sprite shares one
// read-only instance.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/vovakirdan/termsprite/internal/sprite"
)

// ErrUnknownSprite is returned when no source knows a reference.
var ErrUnknownSprite = errors.New("registry: unknown sprite")

// Library is a named sprite store. SpriteData returns nil, nil for names it
// does not hold.
type Library interface {
	SpriteData(name string) ([]byte, error)
}

// Registry resolves references in order: library name, file path, embedded
// asset. Safe for concurrent use.
type Registry struct {
	lib      Library
	embedded fs.FS
	path     func(name string) string

	mu      sync.RWMutex
	sprites map[string]*sprite.Sprite
}

// New creates a registry. lib and embedded may be nil; embeddedPath maps a
// sprite name to its path inside embedded.
func New(lib Library, embedded fs.FS, embeddedPath func(name string) string) *Registry {
	return &Registry{
		lib:      lib,
		embedded: embedded,
		path:     embeddedPath,
		sprites:  make(map[string]*sprite.Sprite),
	}
}

// Get returns the sprite for ref, loading it on first use.
func (r *Registry) Get(ref string) (*sprite.Sprite, error) {
	r.mu.RLock()
	s, ok := r.sprites[ref]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have loaded it meanwhile
	if s, ok := r.sprites[ref]; ok {
		return s, nil
	}

	s, err := r.resolve(ref)
	if err != nil {
		return nil, err
	}
	r.sprites[ref] = s
	return s, nil
}

func (r *Registry) resolve(ref string) (*sprite.Sprite, error) {
	if r.lib != nil {
		data, err := r.lib.SpriteData(ref)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		if data != nil {
			return sprite.Parse("library:"+ref, data)
		}
	}

	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return sprite.Load(ref)
	}

	if r.embedded != nil && r.path != nil {
		p := r.path(ref)
		if _, err := fs.Stat(r.embedded, p); err == nil {
			return sprite.LoadFS(r.embedded, p)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSprite, ref)
}

// Loaded returns the references resolved so far, sorted.
func (r *Registry) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	refs := make([]string, 0, len(r.sprites))
	for ref := range r.sprites {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
