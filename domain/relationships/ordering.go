package relationships

import (
	"sort"

	"mnuda-backend/domain/core/entities"
)

// DisplayOrder arranges nodes for presentation: pinned bootstrap/history
// nodes first in creation order, then ordinary nodes newest-first. The input
// slice is the store in creation order and is not modified.
func DisplayOrder(nodes []*entities.Node) []*entities.Node {
	var pinned, ordinary []*entities.Node
	for _, n := range nodes {
		if n.IsPinned() {
			pinned = append(pinned, n)
		} else {
			ordinary = append(ordinary, n)
		}
	}

	// Store order is creation order, so pinned nodes are already sorted and
	// ordinary nodes only need reversing. sort keeps ties stable if callers
	// hand us a slice that was reordered upstream.
	sort.SliceStable(ordinary, func(i, j int) bool {
		return ordinary[i].Timestamp().After(ordinary[j].Timestamp())
	})

	out := make([]*entities.Node, 0, len(nodes))
	out = append(out, pinned...)
	out = append(out, ordinary...)
	return out
}
