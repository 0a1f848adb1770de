package relationships

import (
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/extraction"
)

// Relationship is the resolved connectivity view of one node: its parent (if
// still present), its children in link order, and the counts of entities its
// response yields. It is computed fresh from store contents on every read and
// is never persisted.
type Relationship struct {
	Node         *entities.Node
	Parent       *entities.Node
	Children     []*entities.Node
	EntityCounts entities.EntityCounts
}

// HasParent reports whether the node's parent reference resolved. A node
// whose parent id is set but unresolvable is an orphaned root, which is a
// legal state after deletes.
func (r Relationship) HasParent() bool { return r.Parent != nil }

// IsOrphan reports a dangling parent reference
func (r Relationship) IsOrphan() bool {
	return r.Parent == nil && !r.Node.ParentNodeID().IsZero()
}

// Resolve computes a node's relationship view against the given store
// contents. allNodes must be the full store in store order; missing children
// and a missing parent are silently tolerated.
func Resolve(node *entities.Node, allNodes []*entities.Node) Relationship {
	index := make(map[string]*entities.Node, len(allNodes))
	for _, n := range allNodes {
		index[n.ID().String()] = n
	}
	return resolveWith(node, index)
}

func resolveWith(node *entities.Node, index map[string]*entities.Node) Relationship {
	rel := Relationship{Node: node}

	if pid := node.ParentNodeID(); !pid.IsZero() {
		rel.Parent = index[pid.String()]
	}
	for _, cid := range node.ChildIDs() {
		if child, ok := index[cid.String()]; ok {
			rel.Children = append(rel.Children, child)
		}
	}
	_, rel.EntityCounts = extraction.ExtractForNode(node)
	return rel
}

// Lineage returns the chain from node up to its root, nearest parent first.
// The walk stops at a missing parent (orphaned root) and is bounded by the
// store size, so a corrupted link set cannot loop it forever.
func Lineage(node *entities.Node, allNodes []*entities.Node) []*entities.Node {
	index := make(map[string]*entities.Node, len(allNodes))
	for _, n := range allNodes {
		index[n.ID().String()] = n
	}

	var chain []*entities.Node
	cur := node
	for len(chain) < len(allNodes) {
		pid := cur.ParentNodeID()
		if pid.IsZero() {
			break
		}
		parent, ok := index[pid.String()]
		if !ok {
			break
		}
		chain = append(chain, parent)
		cur = parent
	}
	return chain
}

// ResolveAll computes the relationship view for every node in the store,
// sharing one index across the pass
func ResolveAll(allNodes []*entities.Node) []Relationship {
	index := make(map[string]*entities.Node, len(allNodes))
	for _, n := range allNodes {
		index[n.ID().String()] = n
	}
	out := make([]Relationship, 0, len(allNodes))
	for _, n := range allNodes {
		out = append(out, resolveWith(n, index))
	}
	return out
}

// FindByEntity returns the node that a traceable entity spawned, if any: the
// node whose recorded trigger id matches entityID
func FindByEntity(entityID valueobjects.Identifier, allNodes []*entities.Node) (*entities.Node, bool) {
	if entityID.IsZero() {
		return nil, false
	}
	for _, n := range allNodes {
		if n.ClickedEntityID().Equals(entityID) {
			return n, true
		}
	}
	return nil, false
}
