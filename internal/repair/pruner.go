package repair

import (
	"strconv"

	"github.com/ecopia-map/tileset_repair/internal/geometry"
	"github.com/ecopia-map/tileset_repair/internal/tileset"
	"github.com/ecopia-map/tileset_repair/tools"
	"github.com/golang/glog"
)

// Removes leaves whose content file is missing or whose box is implausible
type Pruner struct {
	contentFinder tools.ContentFinder
	thresholds    geometry.ValidityThresholds
}

func NewPruner(contentFinder tools.ContentFinder, thresholds geometry.ValidityThresholds) *Pruner {
	return &Pruner{
		contentFinder: contentFinder,
		thresholds:    thresholds,
	}
}

type pruneItem struct {
	tile *tileset.Tile
	path string
}

// Returns a pruned copy of the tree, the input tree is left untouched.
//
// A tile with content is a leaf: its parent drops it when the content file does not exist or when its
// box fails the validity thresholds, checked in this order. Tiles without content are never checked,
// but a tile left with neither content nor children is dropped as well, so every tile of the result
// has content or at least one child. The root is the only exception: it is kept even when the whole
// tree collapses. A tile whose children were all dropped loses its children member.
//
// The tree is walked with an explicit stack: first top-down to check leaves, in document order, then
// bottom-up to rebuild the surviving tiles.
func (p *Pruner) Prune(root *tileset.Tile) (*tileset.Tile, *Report) {
	report := &Report{}

	var order []pruneItem
	survivors := make(map[*tileset.Tile][]pruneItem)

	stack := []pruneItem{{root, "root"}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, it)

		if !it.tile.HasChildren() {
			continue
		}

		kept := make([]pruneItem, 0, len(it.tile.Children))
		for i, child := range it.tile.Children {
			childItem := pruneItem{child, it.path + "/" + strconv.Itoa(i)}
			if child.HasContent() {
				if reason, ok := p.checkLeaf(child); !ok {
					p.drop(report, childItem, reason)
					continue
				}
			}
			kept = append(kept, childItem)
		}
		survivors[it.tile] = kept

		for i := len(kept) - 1; i >= 0; i-- {
			stack = append(stack, kept[i])
		}
	}

	// nil means the tile is dropped
	pruned := make(map[*tileset.Tile]*tileset.Tile, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		it := order[i]
		tile := it.tile.Copy()

		if it.tile.HasChildren() {
			children := make([]*tileset.Tile, 0, len(survivors[it.tile]))
			for _, child := range survivors[it.tile] {
				if c := pruned[child.tile]; c != nil {
					children = append(children, c)
				}
			}
			tile.Children = nil
			if len(children) > 0 {
				tile.Children = children
			}
		}

		if it.tile != root && !tile.HasContent() && !tile.HasChildren() {
			p.drop(report, it, DropCollapsed)
			continue
		}

		pruned[it.tile] = tile
	}

	return pruned[root], report
}

func (p *Pruner) checkLeaf(tile *tileset.Tile) (DropReason, bool) {
	if !p.contentFinder.ContentExists(tile.Content.URI) {
		return DropMissingContent, false
	}
	if !p.thresholds.IsValid(tile.BoundingVolume.Box) {
		return DropInvalidBox, false
	}
	return "", true
}

func (p *Pruner) drop(report *Report, it pruneItem, reason DropReason) {
	drop := Drop{
		Path:   it.path,
		Reason: reason,
		Box:    it.tile.BoundingVolume.Box,
	}
	if it.tile.HasContent() {
		drop.URI = it.tile.Content.URI
	}

	switch reason {
	case DropMissingContent:
		glog.Warningf("Content file does not exist: %s (tile %s)", p.contentFinder.ContentPath(drop.URI), drop.Path)
	case DropInvalidBox:
		glog.Warningf("Illegal bbox for %s (tile %s): %v", drop.URI, drop.Path, drop.Box)
	default:
		glog.Warningf("Removing tile %s: %s", drop.Path, reason)
	}

	report.add(drop)
}
