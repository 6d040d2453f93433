package tileset

import "strings"

type TileStats struct {
	Tiles        int // every node of the tree
	ContentTiles int // nodes referencing a content file
	MaxDepth     int // depth of the deepest node, the root being at depth 0
}

func CountTiles(root *Tile) TileStats {
	var stats TileStats
	if root == nil {
		return stats
	}

	Walk(root, func(tile *Tile, path string) bool {
		stats.Tiles++
		if tile.HasContent() {
			stats.ContentTiles++
		}
		if depth := strings.Count(path, "/"); depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		return true
	})

	return stats
}
