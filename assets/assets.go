// Package assets embeds the arenas shipped with the server.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ArenaDir is the directory inside FS holding the TMX arenas.
const ArenaDir = "arenas"

//go:embed all:arenas
var arenaFS embed.FS

// FS returns the embedded arena filesystem, rooted so that ArenaDir is a
// top-level directory.
func FS() fs.FS {
	return arenaFS
}

// ArenaNames lists the embedded arenas without their extension, sorted.
func ArenaNames() []string {
	entries, err := fs.ReadDir(arenaFS, ArenaDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".tmx" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".tmx"))
	}
	sort.Strings(names)
	return names
}
