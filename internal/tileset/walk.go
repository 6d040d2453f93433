package tileset

import "strconv"

// Visits the tree in pre-order without recursion. The visitor receives each tile with its path
// ("root", "root/0", "root/0/3"...) and returns false to skip the tile's children.
func Walk(root *Tile, visit func(tile *Tile, path string) bool) {
	type item struct {
		tile *Tile
		path string
	}

	stack := []item{{root, "root"}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(it.tile, it.path) {
			continue
		}

		// pushed in reverse so children are visited in document order
		for i := len(it.tile.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.tile.Children[i], it.path + "/" + strconv.Itoa(i)})
		}
	}
}
