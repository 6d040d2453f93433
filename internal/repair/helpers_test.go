package repair

import (
	"github.com/ecopia-map/tileset_repair/internal/tileset"
)

type fakeContentFinder struct {
	missing map[string]bool
}

func (f *fakeContentFinder) ContentExists(uri string) bool {
	return !f.missing[uri]
}

func (f *fakeContentFinder) ContentPath(uri string) string {
	return uri + ".gz"
}

func missing(uris ...string) *fakeContentFinder {
	f := &fakeContentFinder{missing: make(map[string]bool)}
	for _, uri := range uris {
		f.missing[uri] = true
	}
	return f
}

func box(cx, cy, cz, hx, hy, hz float64) []float64 {
	return []float64{cx, cy, cz, hx, 0, 0, 0, hy, 0, 0, 0, hz}
}

func leaf(uri string, b []float64) *tileset.Tile {
	return &tileset.Tile{
		BoundingVolume: tileset.BoundingVolume{Box: b},
		Content:        &tileset.Content{URI: uri},
	}
}

func node(b []float64, children ...*tileset.Tile) *tileset.Tile {
	return &tileset.Tile{
		BoundingVolume: tileset.BoundingVolume{Box: b},
		Children:       children,
	}
}

// root -> 2 internal -> 2 leaves each
func threeLevelTree() *tileset.Tile {
	return node(box(0, 0, 0, 1, 1, 1),
		node(box(0, 0, 0, 1, 1, 1),
			leaf("a.b3dm", box(10, 10, 0, 5, 5, 2)),
			leaf("b.b3dm", box(30, 10, 0, 5, 5, 2)),
		),
		node(box(0, 0, 0, 1, 1, 1),
			leaf("c.b3dm", box(10, 50, 5, 5, 5, 3)),
			leaf("d.b3dm", box(40, 60, 5, 5, 5, 3)),
		),
	)
}

func contentURIs(root *tileset.Tile) []string {
	var uris []string
	tileset.Walk(root, func(tile *tileset.Tile, path string) bool {
		if tile.HasContent() {
			uris = append(uris, tile.Content.URI)
		}
		return true
	})
	return uris
}
