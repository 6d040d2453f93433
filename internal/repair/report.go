package repair

import "github.com/samber/lo"

type DropReason string

const (
	DropMissingContent DropReason = "missing content"
	DropInvalidBox     DropReason = "invalid bounding box"
	DropCollapsed      DropReason = "no content and no children left"
)

// A tile removed from the tree
type Drop struct {
	Path   string // position in the input tree, e.g. root/0/3
	URI    string // content uri, empty for tiles without content
	Reason DropReason
	Box    []float64
}

// Collects the tiles dropped during pruning. Dropping a tile is never an error, the report is the only
// trace of why it disappeared.
type Report struct {
	Drops []Drop
}

func (r *Report) add(drop Drop) {
	r.Drops = append(r.Drops, drop)
}

func (r *Report) Count(reason DropReason) int {
	return lo.CountBy(r.Drops, func(d Drop) bool {
		return d.Reason == reason
	})
}
