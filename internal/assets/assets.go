// Package assets embeds the sprites shipped with termsprite.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed sprites/*.json
var files embed.FS

// Sprites is the embedded sprite directory, one <name>.json per sprite.
var Sprites fs.FS = mustSub(files, "sprites")

// Path returns the path of the named sprite inside Sprites.
func Path(name string) string {
	return name + ".json"
}

// Names lists the embedded sprite names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(Sprites, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
