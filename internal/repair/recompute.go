package repair

import (
	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type recomputeItem struct {
	tile *tileset.Tile
	path string
}

// Returns a copy of the tree where the box of every tile without content is the exact union of its
// children boxes, computed bottom-up. Tiles with content keep their box and their subtree is not
// visited. A root with neither content nor children (empty tileset) is returned unchanged.
//
// Must run on a pruned tree: any other tile with neither content nor children is an error, as are
// rotated boxes.
func Recompute(root *tileset.Tile) (*tileset.Tile, error) {
	if root.HasContent() {
		return root, nil
	}

	var order []recomputeItem
	tileset.Walk(root, func(tile *tileset.Tile, path string) bool {
		if tile.HasContent() {
			return false
		}
		order = append(order, recomputeItem{tile, path})
		return true
	})

	recomputed := make(map[*tileset.Tile]*tileset.Tile, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		it := order[i]
		tile := it.tile.Copy()

		if len(tile.Children) == 0 {
			if it.tile != root {
				return nil, errors.Errorf("tile %s has neither content nor children", it.path)
			}
			glog.Warningf("Root has neither content nor children, bounding volume left unchanged")
			recomputed[it.tile] = tile
			continue
		}

		boxes := make([]*geometry.BoundingBox, 0, len(tile.Children))
		for j, child := range tile.Children {
			if c, ok := recomputed[child]; ok {
				tile.Children[j] = c
				child = c
			}
			bbox, err := geometry.NewBoundingBoxFromBox(child.BoundingVolume.Box)
			if err != nil {
				return nil, errors.Wrapf(err, "tile %s/%d", it.path, j)
			}
			boxes = append(boxes, bbox)
		}

		merged := lo.Reduce(boxes[1:], func(agg *geometry.BoundingBox, bbox *geometry.BoundingBox, _ int) *geometry.BoundingBox {
			return geometry.MergeBoundingBox(agg, bbox)
		}, boxes[0])

		tile.BoundingVolume.Box = merged.ToBox()
		glog.V(1).Infof("tile %s box %v", it.path, tile.BoundingVolume.Box)

		recomputed[it.tile] = tile
	}

	return recomputed[root], nil
}
